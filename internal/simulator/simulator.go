package simulator

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/OldStager01/traffic-extrema/internal/logger"
)

const (
	defaultMaxRows = 5000
	dateLayout     = "2006-01-02-15-04-05"
)

var historicColumns = []string{
	"Date Time",
	"Traffic Total (Speed)",
	"Traffic Total (Speed)(RAW)",
	"Traffic Total (Volume)",
}

type Config struct {
	Port     int
	Username string
	Passhash string
	MaxRows  int
	// Now anchors the default date range; tests pin it
	Now func() time.Time
}

// Simulator is a stand-in monitoring server serving limit properties and
// historic traffic data for simulated objects.
type Simulator struct {
	config     Config
	objects    map[string]*ObjectSim
	mu         sync.RWMutex
	httpServer *http.Server
}

func New(cfg Config) *Simulator {
	if cfg.Port == 0 {
		cfg.Port = 9000
	}
	if cfg.MaxRows == 0 {
		cfg.MaxRows = defaultMaxRows
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Simulator{
		config:  cfg,
		objects: make(map[string]*ObjectSim),
	}
}

func (s *Simulator) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status.json", s.statusHandler)
	mux.HandleFunc("/api/getobjectproperty.htm", s.propertyHandler)
	mux.HandleFunc("/api/historicdata.csv", s.historicHandler)
	mux.HandleFunc("/objects", s.listObjectsHandler)
	mux.HandleFunc("/objects/", s.objectHandler)

	return mux
}

func (s *Simulator) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Infof("Simulator listening on %s", addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Simulator server error: %v", err)
		}
	}()

	return nil
}

func (s *Simulator) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *Simulator) AddObject(id string, cfg ObjectSimConfig) *ObjectSim {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj := NewObjectSim(id, cfg)
	s.objects[id] = obj
	logger.Debugf("Simulated object %s (%s)", id, obj.config.Pattern.Name())
	return obj
}

func (s *Simulator) RemoveObject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.objects[id]
	delete(s.objects, id)
	return exists
}

func (s *Simulator) Object(id string) (*ObjectSim, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, exists := s.objects[id]
	return obj, exists
}

func (s *Simulator) authorized(r *http.Request) bool {
	if s.config.Username == "" {
		return true
	}
	q := r.URL.Query()
	return q.Get("username") == s.config.Username && q.Get("passhash") == s.config.Passhash
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(body))
}

// HTTP Handlers

func (s *Simulator) statusHandler(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeText(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	s.mu.RLock()
	count := len(s.objects)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"Version": "simulator",
		"Clock":   s.config.Now().Format(time.RFC3339),
		"Sensors": count,
	})
}

func (s *Simulator) propertyHandler(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeText(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	q := r.URL.Query()
	result := "(Property not found)"
	if obj, ok := s.Object(q.Get("id")); ok {
		if v, ok := obj.Limit(q.Get("name")); ok {
			result = strconv.FormatInt(v, 10)
		}
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	fmt.Fprintf(w, "<?xml version=\"1.0\" encoding=\"UTF-8\" ?>\n<prtg>\n<version>simulator</version>\n<result>%s</result>\n</prtg>\n", result)
}

func (s *Simulator) historicHandler(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeText(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	q := r.URL.Query()
	obj, ok := s.Object(q.Get("id"))
	if !ok {
		writeText(w, http.StatusBadRequest, "Object not found")
		return
	}

	start, end, step, err := s.window(q.Get("sdate"), q.Get("edate"), q.Get("avg"))
	if err != nil {
		writeText(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	cw := csv.NewWriter(w)
	cw.Write(historicColumns)

	rows := 0
	for t := start; t.Before(end) && rows < s.config.MaxRows; t = t.Add(step) {
		cw.Write(obj.Row(t))
		rows++
	}
	cw.Flush()

	logger.Debugf("Served %d rows for object %s", rows, obj.ID())
}

// window resolves the requested range. An empty bound defaults to the last
// 24 hours; avg of 0 or empty means one sample per minute.
func (s *Simulator) window(sdate, edate, avg string) (time.Time, time.Time, time.Duration, error) {
	end := s.config.Now().Truncate(time.Minute)
	if edate != "" {
		t, err := parseDate(edate)
		if err != nil {
			return time.Time{}, time.Time{}, 0, err
		}
		end = t
	}

	start := end.Add(-24 * time.Hour)
	if sdate != "" {
		t, err := parseDate(sdate)
		if err != nil {
			return time.Time{}, time.Time{}, 0, err
		}
		start = t
	}

	step := time.Minute
	if avg != "" {
		secs, err := strconv.Atoi(avg)
		if err != nil || secs < 0 {
			return time.Time{}, time.Time{}, 0, fmt.Errorf("invalid avg %q", avg)
		}
		if secs > 0 {
			step = time.Duration(secs) * time.Second
		}
	}

	return start, end, step, nil
}

func parseDate(v string) (time.Time, error) {
	switch len(v) {
	case len("2006-01-02"), len("2006-01-02-15-04"), len(dateLayout):
		if t, err := time.Parse(dateLayout[:len(v)], v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", v)
}

func (s *Simulator) listObjectsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.mu.RLock()
	statuses := make([]ObjectStatus, 0, len(s.objects))
	for _, obj := range s.objects {
		statuses = append(statuses, obj.Status())
	}
	s.mu.RUnlock()

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].ID < statuses[j].ID })

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"objects": statuses,
		"count":   len(statuses),
	})
}

func (s *Simulator) objectHandler(w http.ResponseWriter, r *http.Request) {
	// Path: /objects/{id}
	id := strings.TrimPrefix(r.URL.Path, "/objects/")
	if id == "" {
		http.Error(w, "object ID required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		obj, ok := s.Object(id)
		if !ok {
			http.Error(w, "object not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(obj.Status())

	case http.MethodPut:
		var req ObjectStatus
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		obj := s.AddObject(id, ObjectSimConfig{
			BaseBytesPerSec: req.BaseBytesPerSec,
			Variance:        req.Variance,
			GapRatio:        req.GapRatio,
			WarningLimit:    req.WarningLimit,
			ErrorLimit:      req.ErrorLimit,
			Pattern:         ParsePattern(req.Pattern),
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(obj.Status())

	case http.MethodDelete:
		if !s.RemoveObject(id) {
			http.Error(w, "object not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
