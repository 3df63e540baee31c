package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"polyroot/internal/config"
	"polyroot/internal/optimizer"
	"polyroot/internal/plot"
	"polyroot/internal/poly"
	"polyroot/internal/report"
	"polyroot/internal/sse"
)

// Server — HTTP API поиска корней
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	hub     *sse.Hub
	runs    runStore
	metrics *metrics
}

// New создаёт сервер
func New(cfg *config.Config, log *slog.Logger) *Server {
	return &Server{
		cfg:     cfg,
		log:     log,
		hub:     sse.NewHub(1024),
		runs:    runStore{max: cfg.Server.MaxRuns},
		metrics: newMetrics(),
	}
}

// target — функция запуска: многочлен или выражение f(x)
type target struct {
	poly *poly.Polynomial
	fn   optimizer.Func
}

func buildTarget(coeffs []float64, expr string) (target, error) {
	if expr != "" {
		f, err := optimizer.NewEvalFunc(expr)
		if err != nil {
			return target{}, err
		}
		return target{fn: f}, nil
	}
	p, err := poly.New(coeffs...)
	if err != nil {
		return target{}, err
	}
	return target{poly: p, fn: optimizer.Plain(p)}, nil
}

func (s *Server) options(p RunParams) (optimizer.Options, error) {
	o, err := s.cfg.Solver.Options()
	if err != nil {
		return o, err
	}
	if p.Delta != 0 {
		o.Delta = p.Delta
	}
	if p.MaxIter != nil {
		o.MaxIter = *p.MaxIter
	}
	if p.Tolerance != "" {
		if o.Tolerance, err = optimizer.ParseCriterion(p.Tolerance); err != nil {
			return o, err
		}
	}
	return o, o.Validate()
}

func run(method string, t target, p RunParams, o optimizer.Options) (optimizer.Result, error) {
	switch method {
	case optimizer.MethodNewton:
		return optimizer.Newton(t.poly, p.X0, o)
	case optimizer.MethodTangent:
		return optimizer.Tangent(t.fn, p.X0, o)
	default:
		return optimizer.Bisect(t.fn, p.A, p.B, o)
	}
}

// StartRun запускает новый поиск корня
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "только POST", http.StatusMethodNotAllowed)
		return
	}

	var p RunParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "ошибка JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	method := p.Method
	if method == "" {
		method = s.cfg.Solver.Method
	}
	switch method {
	case optimizer.MethodNewton, optimizer.MethodTangent, optimizer.MethodBisect:
	default:
		http.Error(w, "неизвестный метод: "+method, http.StatusBadRequest)
		return
	}
	if method == optimizer.MethodNewton && p.Func != "" {
		http.Error(w, "метод Ньютона требует коэффициенты многочлена", http.StatusBadRequest)
		return
	}
	if method == optimizer.MethodBisect && !(p.A < p.B) {
		http.Error(w, "требуется a < b", http.StatusBadRequest)
		return
	}

	o, err := s.options(p)
	if err != nil {
		http.Error(w, "ошибка в параметрах: "+err.Error(), http.StatusBadRequest)
		return
	}

	t, err := buildTarget(p.Coeffs, p.Func)
	if err != nil {
		http.Error(w, "ошибка в функции: "+err.Error(), http.StatusBadRequest)
		return
	}

	// предварительно считаем значения функции для графика
	low, high := p.Low, p.High
	if !(low < high) {
		if method == optimizer.MethodBisect {
			low, high = p.A, p.B
		} else {
			low, high = s.cfg.Plot.Low, s.cfg.Plot.High
		}
	}
	pts, err := plot.Sample(t.fn, low, high, s.cfg.Server.PreviewPoints)
	if err != nil {
		http.Error(w, "ошибка диапазона: "+err.Error(), http.StatusBadRequest)
		return
	}
	xs := make([]float64, len(pts))
	ys := make([]*float64, len(pts))
	for i, pt := range pts {
		xs[i], ys[i] = pt.X, num(pt.Y)
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	rs := newRunState(id, p, cancel)
	s.runs.save(rs)

	// асинхронный запуск
	go s.execute(ctx, rs, method, t, o)

	writeJSON(w, http.StatusOK, map[string]any{
		"id": id,
		"xs": xs,
		"ys": ys,
	})
}

func (s *Server) execute(ctx context.Context, rs *RunState, method string, t target, o optimizer.Options) {
	defer rs.Cancel()
	s.metrics.active.Inc()
	defer s.metrics.active.Dec()

	s.publish(rs.ID, map[string]any{"type": "start", "id": rs.ID, "method": method})

	o.OnIter = func(it optimizer.Iter) error {
		select {
		case <-ctx.Done():
			return optimizer.ErrStopped
		default:
		}
		rs.addIter(it)
		s.publish(rs.ID, map[string]any{"type": "iter", "iter": it})
		return nil
	}

	res, err := run(method, t, rs.Params, o)

	s.metrics.runs.WithLabelValues(method, string(res.Status)).Inc()
	s.metrics.iterations.WithLabelValues(method).Observe(float64(res.Iterations))
	s.log.Info("run finished", "id", rs.ID, "method", method, "status", res.Status,
		"root", res.Root, "iterations", res.Iterations, "residual", res.Residual)
	rs.finish(res, err)

	switch {
	case errors.Is(err, optimizer.ErrStopped):
		s.publish(rs.ID, map[string]any{"type": "stopped"})
	case err != nil:
		s.publish(rs.ID, map[string]any{"type": "error", "err": err.Error(), "result": resultJSON(res)})
	default:
		s.publish(rs.ID, map[string]any{"type": "done", "result": resultJSON(res)})
	}
	s.hub.Close(rs.ID)
	rs.release()
	s.evict()
}

func (s *Server) evict() {
	evicted := s.runs.prune()
	for _, id := range evicted {
		s.hub.Remove(id)
	}
	if len(evicted) > 0 {
		s.log.Debug("runs evicted", "count", len(evicted), "runs", s.runs.len(), "streams", s.hub.Len())
	}
}

func (s *Server) publish(id string, payload map[string]any) {
	msg, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("encode event", "id", id, "error", err)
		return
	}
	s.hub.Publish(id, string(msg))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) *RunState {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "требуется id", http.StatusBadRequest)
		return nil
	}
	rs := s.runs.get(id)
	if rs == nil {
		http.Error(w, "неизвестный id", http.StatusNotFound)
		return nil
	}
	return rs
}

// StopRun — прерывание запуска
func (s *Server) StopRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "только POST", http.StatusMethodNotAllowed)
		return
	}
	rs := s.lookup(w, r)
	if rs == nil {
		return
	}
	if rs.Cancel != nil {
		rs.Cancel()
	}
	w.WriteHeader(http.StatusNoContent)
}

// Result — итог запуска (или текущее состояние, если он ещё идёт)
func (s *Server) Result(w http.ResponseWriter, r *http.Request) {
	rs := s.lookup(w, r)
	if rs == nil {
		return
	}
	res, errMsg, done := rs.Snapshot()
	body := map[string]any{
		"id":   rs.ID,
		"done": done,
	}
	if done {
		body["result"] = resultJSON(res)
	}
	if errMsg != "" {
		body["err"] = errMsg
	}
	writeJSON(w, http.StatusOK, body)
}

// ExportCSV — экспорт итераций в CSV
func (s *Server) ExportCSV(w http.ResponseWriter, r *http.Request) {
	rs := s.lookup(w, r)
	if rs == nil {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=iterations_"+rs.ID+".csv")
	if err := report.WriteTraceCSV(w, rs.Iters()); err != nil {
		s.log.Warn("export csv", "id", rs.ID, "error", err)
	}
}

// Stream — SSE-стрим событий запуска
func (s *Server) Stream(w http.ResponseWriter, r *http.Request) {
	rs := s.lookup(w, r)
	if rs == nil {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	past, ch, cancel := s.hub.Subscribe(rs.ID)
	defer cancel()

	for _, msg := range past {
		writeEvent(w, msg)
	}
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, msg)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, msg string) {
	fmt.Fprintf(w, "event: msg\n")
	fmt.Fprintf(w, "data: %s\n\n", msg)
}

type rootsRequest struct {
	Coeffs []float64 `json:"coeffs"`
}

// Roots — все вещественные корни многочлена (для проверки)
func (s *Server) Roots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "только POST", http.StatusMethodNotAllowed)
		return
	}
	var req rootsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "ошибка JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	p, err := poly.New(req.Coeffs...)
	if err != nil {
		http.Error(w, "ошибка в многочлене: "+err.Error(), http.StatusBadRequest)
		return
	}

	all, err := p.Roots()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	realRoots, err := p.RealRoots()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	complexRoots := make([][2]float64, len(all))
	for i, z := range all {
		complexRoots[i] = [2]float64{real(z), imag(z)}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"polynomial": p.String(),
		"real":       realRoots,
		"all":        complexRoots,
	})
}

// Plot — изображение графика (format=png|svg, по умолчанию png)
func (s *Server) Plot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "только POST", http.StatusMethodNotAllowed)
		return
	}
	var p RunParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "ошибка JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	t, err := buildTarget(p.Coeffs, p.Func)
	if err != nil {
		http.Error(w, "ошибка в функции: "+err.Error(), http.StatusBadRequest)
		return
	}

	low, high := p.Low, p.High
	if !(low < high) {
		low, high = s.cfg.Plot.Low, s.cfg.Plot.High
	}
	n := s.cfg.Plot.Points
	if v := r.URL.Query().Get("points"); v != "" {
		if n, err = strconv.Atoi(v); err != nil {
			http.Error(w, "points: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if n < 1 || n > s.cfg.Server.MaxPlotPoints {
		http.Error(w, fmt.Sprintf("points: допустимо от 1 до %d", s.cfg.Server.MaxPlotPoints), http.StatusBadRequest)
		return
	}
	pts, err := plot.Sample(t.fn, low, high, n)
	if err != nil {
		http.Error(w, "ошибка диапазона: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "png":
		format = "png"
		w.Header().Set("Content-Type", "image/png")
	case "svg":
		w.Header().Set("Content-Type", "image/svg+xml")
	default:
		http.Error(w, "неизвестный формат: "+format, http.StatusBadRequest)
		return
	}

	title := p.Func
	if t.poly != nil {
		title = t.poly.String()
	}
	if err := plot.Encode(w, pts, format, plot.Options{Title: title}); err != nil {
		s.log.Error("render plot", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
