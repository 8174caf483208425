package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"todo-planner/internal/service"
)

// Server exposes the task and scratchpad services over REST. The routes
// and parameter conventions match the web client: add and update take
// query parameters, delete reports whether the removed task had been
// complete.
type Server struct {
	tasks      *service.TaskService
	scratchpad *service.ScratchpadService
}

func New(tasks *service.TaskService, scratchpad *service.ScratchpadService) *Server {
	return &Server{tasks: tasks, scratchpad: scratchpad}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /todo/allbydate", s.handleAllByDate)
	mux.HandleFunc("GET /todo/all", s.handleAll)
	mux.HandleFunc("POST /todo/add", s.handleAdd)
	mux.HandleFunc("POST /todo/update", s.handleUpdate)
	mux.HandleFunc("DELETE /todo/delete/{id}", s.handleDelete)
	mux.HandleFunc("GET /todo/scratchpad", s.handleGetScratchpad)
	mux.HandleFunc("POST /todo/scratchpad", s.handleSaveScratchpad)
	return withLogging(mux)
}

func (s *Server) handleAllByDate(w http.ResponseWriter, r *http.Request) {
	grouped, err := s.tasks.GroupedByDate(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, grouped)
}

func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.ListAll(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, tasks)
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := service.AddInput{
		Name:       q.Get("name"),
		Category:   q.Get("category"),
		TaskDate:   q.Get("taskDate"),
		RepeatType: q.Get("repeatType"),
	}

	var err error
	if input.Priority, err = intParam(q.Get("priority")); err != nil {
		http.Error(w, "invalid priority", http.StatusBadRequest)
		return
	}
	if input.RepeatDuration, err = intParam(q.Get("repeatDuration")); err != nil {
		http.Error(w, "invalid repeatDuration", http.StatusBadRequest)
		return
	}
	if raw := q.Get("longTerm"); raw != "" {
		if input.LongTerm, err = strconv.ParseBool(raw); err != nil {
			http.Error(w, "invalid longTerm", http.StatusBadRequest)
			return
		}
	}

	result, err := s.tasks.AddTask(r.Context(), input)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id, err := strconv.ParseInt(q.Get("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	result, err := s.tasks.UpdateTaskField(r.Context(), id, q.Get("field"), q.Get("value"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, result)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	wasComplete, err := s.tasks.DeleteTask(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, wasComplete)
}

func (s *Server) handleGetScratchpad(w http.ResponseWriter, r *http.Request) {
	pad, err := s.scratchpad.Get(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, pad)
}

func (s *Server) handleSaveScratchpad(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	pad, err := s.scratchpad.Save(r.Context(), string(body))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, pad)
}

func intParam(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[warn] encode response: %v", err)
	}
}

func httpError(w http.ResponseWriter, err error) {
	log.Printf("[error] %v", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
