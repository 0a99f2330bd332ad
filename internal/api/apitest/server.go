// Package apitest 提供内存版的平台后端，供各包测试走真实 HTTP 往返
package apitest

import (
	"encoding/json"
	"english_admin/internal/config"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	DefaultEmail    = "admin@example.com"
	DefaultPassword = "secret"
	DefaultToken    = "test-token"
)

type record = map[string]interface{}

type table struct {
	idField     string
	parentField string
	required    []string
	rows        map[string]record
	order       []string
}

type failure struct {
	status int
	body   interface{}
}

type route struct {
	method  string
	pattern []string
	handle  func(w http.ResponseWriter, r *http.Request, params []string)
}

// Server 仅实现控制台用到的接口；请求日志、故障注入、挂起请求用于测试断言
type Server struct {
	*httptest.Server

	Email    string
	Password string
	Token    string

	mu       sync.Mutex
	tables   map[string]*table
	failures map[string]failure
	holds    map[string]chan struct{}
	requests []string
	uploads  map[string][]byte
	routes   []route
}

func NewServer() *Server {
	s := &Server{
		Email:    DefaultEmail,
		Password: DefaultPassword,
		Token:    DefaultToken,
		tables:   make(map[string]*table),
		failures: make(map[string]failure),
		holds:    make(map[string]chan struct{}),
		uploads:  make(map[string][]byte),
	}
	s.define("exams", "examId", "", "title")
	s.define("sections", "sectionId", "examId", "title")
	s.define("questions", "questionId", "sectionId", "textContent")
	s.define("options", "optionId", "questionId")
	s.define("lessons", "lessonId", "", "title")
	s.define("sub-lessons", "subLessonId", "lessonId", "title")
	s.define("materials", "materialId", "subLessonId", "title")
	s.define("exercises", "exerciseId", "subLessonId", "title")
	s.define("games", "gameId", "", "title")
	s.define("rooms", "roomId", "gameId", "roomName")
	s.define("players", "roomPlayerId", "roomId")
	s.define("word-pairs", "pairId", "gameId", "englishWord")
	s.define("flashcards", "cardId", "gameId", "front")
	s.define("spelling-words", "wordId", "gameId", "word")
	s.define("quiz-questions", "questionId", "gameId", "question")
	s.define("puzzles", "puzzleId", "gameId", "sentence")
	s.define("assessment-questions", "questionId", "", "textContent")
	s.define("assessments", "assessmentId", "userId")
	s.define("sessions", "sessionId", "examId")
	s.define("answers", "answerId", "sessionId")
	s.define("users", "userId", "")
	s.registerRoutes()

	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// APIConfig 指向本服务的客户端配置
func (s *Server) APIConfig() config.APIConfig {
	return config.APIConfig{BaseURL: s.URL + "/api", TimeoutSecond: 5}
}

func (s *Server) define(kind, idField, parentField string, required ...string) {
	s.tables[kind] = &table{
		idField:     idField,
		parentField: parentField,
		required:    required,
		rows:        make(map[string]record),
	}
}

// Seed 直接写入一条记录并返回 ID
func (s *Server) Seed(kind string, rec map[string]interface{}) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(kind, "", rec)
}

// Records 按插入顺序返回某类记录
func (s *Server) Records(kind string) []map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tables[kind]
	out := make([]map[string]interface{}, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, copyRecord(t.rows[id]))
	}
	return out
}

// Fail 之后所有匹配 method+path 的请求都返回 status/body，直到 Recover
func (s *Server) Fail(method, p string, status int, body interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+p] = failure{status: status, body: body}
}

func (s *Server) Recover(method, p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+p)
}

// Hold 挂起匹配的请求，调用返回的函数后才继续处理
func (s *Server) Hold(method, p string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[method+" "+p] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.holds, method+" "+p)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Requests 已收到的请求，形如 "GET /api/exams"
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Count 统计某个 method+path 收到的次数
func (s *Server) Count(method, p string) int {
	n := 0
	for _, r := range s.Requests() {
		if r == method+" "+p {
			n++
		}
	}
	return n
}

// SetToken 模拟后端轮换密钥，旧 token 之后都会得到 401
func (s *Server) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Token = token
}

func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) Upload(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.uploads[name]
	return data, ok
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path

	s.mu.Lock()
	s.requests = append(s.requests, key)
	hold := s.holds[key]
	fail, failing := s.failures[key]
	token := s.Token
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-r.Context().Done():
			return
		}
	}
	if failing {
		writeJSON(w, fail.status, fail.body)
		return
	}

	p := strings.TrimPrefix(r.URL.Path, "/api")
	if p != "/auth/login" && r.Header.Get("Authorization") != "Bearer "+token {
		writeError(w, r, http.StatusUnauthorized, "Full authentication is required")
		return
	}

	segments := strings.Split(strings.Trim(p, "/"), "/")
	for _, rt := range s.routes {
		if rt.method != r.Method {
			continue
		}
		if params, ok := match(rt.pattern, segments); ok {
			rt.handle(w, r, params)
			return
		}
	}
	writeError(w, r, http.StatusNotFound, "No handler for "+key)
}

func match(pattern, segments []string) ([]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	var params []string
	for i, seg := range pattern {
		if seg == "{}" {
			params = append(params, segments[i])
			continue
		}
		if seg != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func (s *Server) handle(method, pattern string, h func(w http.ResponseWriter, r *http.Request, params []string)) {
	s.routes = append(s.routes, route{method: method, pattern: strings.Split(strings.Trim(pattern, "/"), "/"), handle: h})
}

// crud 注册 collection（可带父 ID）与 item 两组路由
func (s *Server) crud(kind, collection, item string) {
	nested := strings.Contains(collection, "{}")
	s.handle(http.MethodGet, collection, func(w http.ResponseWriter, r *http.Request, params []string) {
		parent := ""
		if nested {
			parent = params[0]
		}
		writeJSON(w, http.StatusOK, s.list(kind, parent))
	})
	s.handle(http.MethodPost, collection, func(w http.ResponseWriter, r *http.Request, params []string) {
		parent := ""
		if nested {
			parent = params[0]
		}
		s.create(w, r, kind, parent)
	})
	s.handle(http.MethodGet, item, func(w http.ResponseWriter, r *http.Request, params []string) {
		s.get(w, r, kind, params[0])
	})
	s.handle(http.MethodPut, item, func(w http.ResponseWriter, r *http.Request, params []string) {
		s.update(w, r, kind, params[0])
	})
	s.handle(http.MethodDelete, item, func(w http.ResponseWriter, r *http.Request, params []string) {
		s.delete(w, r, kind, params[0])
	})
}

func (s *Server) registerRoutes() {
	s.handle(http.MethodPost, "/auth/login", s.login)

	// 更具体的路径先注册
	s.handle(http.MethodGet, "/sessions/exam/{}", func(w http.ResponseWriter, r *http.Request, params []string) {
		writeJSON(w, http.StatusOK, s.list("sessions", params[0]))
	})
	s.handle(http.MethodGet, "/assessments/questions/skill/{}", func(w http.ResponseWriter, r *http.Request, params []string) {
		writeJSON(w, http.StatusOK, s.filter("assessment-questions", "skillType", params[0]))
	})
	s.handle(http.MethodPost, "/assessments/templates/{}", s.applyTemplate)
	s.handle(http.MethodGet, "/games/{}/content", s.gameContent)
	s.handle(http.MethodPost, "/files/upload/audio", s.upload)

	for _, kind := range []string{"word-pairs", "flashcards", "spelling-words", "quiz-questions", "puzzles"} {
		s.crud(kind, "/games/{}/"+kind, "/games/"+kind+"/{}")
	}
	s.crud("materials", "/sub-lessons/{}/materials", "/sub-lessons/materials/{}")
	s.crud("exercises", "/sub-lessons/{}/exercises", "/sub-lessons/exercises/{}")
	s.crud("assessment-questions", "/assessments/questions", "/assessments/questions/{}")
	s.crud("assessments", "/assessments/users/{}", "/assessments/{}")
	s.crud("answers", "/sessions/{}/answers", "/answers/{}")

	s.crud("exams", "/exams", "/exams/{}")
	s.crud("sections", "/exams/{}/sections", "/sections/{}")
	s.crud("questions", "/sections/{}/questions", "/questions/{}")
	s.crud("options", "/questions/{}/options", "/options/{}")
	s.crud("lessons", "/lessons", "/lessons/{}")
	s.crud("sub-lessons", "/lessons/{}/sub-lessons", "/sub-lessons/{}")
	s.crud("games", "/games", "/games/{}")
	s.crud("rooms", "/games/{}/rooms", "/rooms/{}")
	s.crud("players", "/rooms/{}/players", "/room-players/{}")
	s.crud("sessions", "/sessions", "/sessions/{}")
	s.crud("users", "/users", "/users/{}")
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, _ []string) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed JSON request")
		return
	}
	s.mu.Lock()
	token := s.Token
	s.mu.Unlock()
	if body.Email != s.Email || body.Password != s.Password {
		writeError(w, r, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, record{
		"token":    token,
		"userId":   "admin-1",
		"email":    s.Email,
		"username": "admin",
		"message":  "Login successful",
	})
}

func (s *Server) list(kind, parent string) []record {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tables[kind]
	out := make([]record, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if parent != "" && t.parentField != "" && fmt.Sprint(row[t.parentField]) != parent {
			continue
		}
		out = append(out, copyRecord(row))
	}
	return out
}

func (s *Server) filter(kind, field, value string) []record {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tables[kind]
	out := make([]record, 0)
	for _, id := range t.order {
		if fmt.Sprint(t.rows[id][field]) == value {
			out = append(out, copyRecord(t.rows[id]))
		}
	}
	return out
}

func (s *Server) create(w http.ResponseWriter, r *http.Request, kind, parent string) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	t := s.tables[kind]
	if errs := missing(t, body); len(errs) > 0 {
		s.mu.Unlock()
		writeValidation(w, r, errs)
		return
	}
	id := s.insert(kind, parent, body)
	created := copyRecord(t.rows[id])
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, created)
}

// insert 调用方需持有 s.mu
func (s *Server) insert(kind, parent string, rec record) string {
	t := s.tables[kind]
	row := copyRecord(rec)
	id, _ := row[t.idField].(string)
	if id == "" {
		id = uuid.NewString()
	}
	row[t.idField] = id
	if parent != "" && t.parentField != "" {
		row[t.parentField] = parent
	}
	if _, exists := t.rows[id]; !exists {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
	return id
}

func (s *Server) get(w http.ResponseWriter, r *http.Request, kind, id string) {
	s.mu.Lock()
	row, ok := s.tables[kind].rows[id]
	if ok {
		row = copyRecord(row)
	}
	s.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, kind+" not found")
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// update 合并请求体，未出现的字段保持原值
func (s *Server) update(w http.ResponseWriter, r *http.Request, kind, id string) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	t := s.tables[kind]
	row, exists := t.rows[id]
	if !exists {
		s.mu.Unlock()
		writeError(w, r, http.StatusNotFound, kind+" not found")
		return
	}
	merged := copyRecord(row)
	for k, v := range body {
		merged[k] = v
	}
	merged[t.idField] = id
	if errs := missing(t, merged); len(errs) > 0 {
		s.mu.Unlock()
		writeValidation(w, r, errs)
		return
	}
	t.rows[id] = merged
	out := copyRecord(merged)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request, kind, id string) {
	s.mu.Lock()
	t := s.tables[kind]
	if _, ok := t.rows[id]; !ok {
		s.mu.Unlock()
		writeError(w, r, http.StatusNotFound, kind+" not found")
		return
	}
	delete(t.rows, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

var contentTables = map[string]string{
	"WORD_MATCH": "word-pairs",
	"FLASHCARD":  "flashcards",
	"SPELLING":   "spelling-words",
	"QUIZ":       "quiz-questions",
	"PUZZLE":     "puzzles",
}

func (s *Server) gameContent(w http.ResponseWriter, r *http.Request, params []string) {
	s.mu.Lock()
	game, ok := s.tables["games"].rows[params[0]]
	s.mu.Unlock()
	if !ok {
		writeError(w, r, http.StatusNotFound, "Game not found")
		return
	}
	gameType := strings.ReplaceAll(strings.ToUpper(fmt.Sprint(game["gameType"])), " ", "_")
	if gameType == "FLASH_CARD" {
		gameType = "FLASHCARD"
	}
	kind, ok := contentTables[gameType]
	if !ok {
		writeJSON(w, http.StatusOK, []record{})
		return
	}
	writeJSON(w, http.StatusOK, s.list(kind, params[0]))
}

func (s *Server) applyTemplate(w http.ResponseWriter, r *http.Request, params []string) {
	skills := []string{"LISTENING", "READING", "WRITING", "SPEAKING", "GRAMMAR", "VOCABULARY"}
	s.mu.Lock()
	for _, skill := range skills {
		s.insert("assessment-questions", "", record{
			"skillType":    skill,
			"questionType": "MULTIPLE_CHOICE",
			"textContent":  params[0] + " - " + skill + " Question 1",
			"scorePoints":  1,
		})
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Template created successfully")
}

func (s *Server) upload(w http.ResponseWriter, r *http.Request, _ []string) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Please select a file to upload")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	name := uuid.NewString() + path.Ext(header.Filename)
	s.mu.Lock()
	s.uploads[name] = data
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, record{"url": "/api/files/audio/" + name, "filename": name})
}

func missing(t *table, row record) map[string]string {
	errs := make(map[string]string)
	for _, f := range t.required {
		if v, ok := row[f]; !ok || v == nil || strings.TrimSpace(fmt.Sprint(v)) == "" {
			errs[f] = "must not be blank"
		}
	}
	return errs
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (record, bool) {
	body := record{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "Malformed JSON request")
		return nil, false
	}
	return body, true
}

func copyRecord(in record) record {
	out := make(record, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, record{
		"status":  status,
		"error":   http.StatusText(status),
		"message": message,
		"path":    r.URL.Path,
	})
}

func writeValidation(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	writeJSON(w, http.StatusBadRequest, record{
		"status":           http.StatusBadRequest,
		"error":            "Validation Failed",
		"message":          "Invalid fields: " + strings.Join(keys, ", "),
		"path":             r.URL.Path,
		"validationErrors": fields,
	})
}
