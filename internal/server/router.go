package server

import "net/http"

// Router — маршруты API
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// запуски
	mux.HandleFunc("/start", s.StartRun)
	mux.HandleFunc("/stop", s.StopRun)
	mux.HandleFunc("/stream", s.Stream)
	mux.HandleFunc("/result", s.Result)
	mux.HandleFunc("/export", s.ExportCSV)

	// без запуска
	mux.HandleFunc("/roots", s.Roots)
	mux.HandleFunc("/plot", s.Plot)

	mux.Handle("/metrics", s.metrics.handler())

	return mux
}
