package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/avenard/clubregistry/internal/config"
	"github.com/avenard/clubregistry/internal/domain"
	"github.com/avenard/clubregistry/internal/ingest"
	"github.com/avenard/clubregistry/internal/metrics"
	"github.com/avenard/clubregistry/internal/repository"
)

// ============================================================================
// In-memory repositories
// ============================================================================

type memMembers struct {
	members map[uuid.UUID]domain.Member
}

func newMemMembers() *memMembers {
	return &memMembers{members: make(map[uuid.UUID]domain.Member)}
}

func (r *memMembers) Create(ctx context.Context, m *domain.Member) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	r.members[m.ID] = *m
	return nil
}

func (r *memMembers) Update(ctx context.Context, m *domain.Member) error {
	if _, ok := r.members[m.ID]; !ok {
		return repository.ErrNotFound
	}
	r.members[m.ID] = *m
	return nil
}

func (r *memMembers) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	for _, m := range r.members {
		if m.Email == email {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memMembers) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	m, ok := r.members[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *memMembers) List(ctx context.Context) ([]domain.Member, error) {
	out := make([]domain.Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	return out, nil
}

func (r *memMembers) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.members[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.members, id)
	return nil
}

func (r *memMembers) Count(ctx context.Context) (int64, error) {
	return int64(len(r.members)), nil
}

type memCoaches struct {
	coaches map[uuid.UUID]domain.Coach
}

func newMemCoaches() *memCoaches {
	return &memCoaches{coaches: make(map[uuid.UUID]domain.Coach)}
}

func (r *memCoaches) Create(ctx context.Context, c *domain.Coach) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.coaches[c.ID] = *c
	return nil
}

func (r *memCoaches) Update(ctx context.Context, c *domain.Coach) error {
	if _, ok := r.coaches[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.coaches[c.ID] = *c
	return nil
}

func (r *memCoaches) GetByID(ctx context.Context, id uuid.UUID) (*domain.Coach, error) {
	c, ok := r.coaches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *memCoaches) List(ctx context.Context) ([]domain.Coach, error) {
	out := make([]domain.Coach, 0, len(r.coaches))
	for _, c := range r.coaches {
		out = append(out, c)
	}
	return out, nil
}

func (r *memCoaches) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.coaches[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.coaches, id)
	return nil
}

func (r *memCoaches) Count(ctx context.Context) (int64, error) {
	return int64(len(r.coaches)), nil
}

type memCourses struct {
	courses map[uuid.UUID]domain.Course
}

func newMemCourses() *memCourses {
	return &memCourses{courses: make(map[uuid.UUID]domain.Course)}
}

func (r *memCourses) Create(ctx context.Context, c *domain.Course) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.courses[c.ID] = *c
	return nil
}

func (r *memCourses) Update(ctx context.Context, c *domain.Course) error {
	if _, ok := r.courses[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.courses[c.ID] = *c
	return nil
}

func (r *memCourses) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *memCourses) List(ctx context.Context) ([]domain.Course, error) {
	out := make([]domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, c)
	}
	return out, nil
}

func (r *memCourses) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *memCourses) Count(ctx context.Context) (int64, error) {
	return int64(len(r.courses)), nil
}

type memAttendance struct {
	sheets map[uuid.UUID]domain.AttendanceSheet
}

func newMemAttendance() *memAttendance {
	return &memAttendance{sheets: make(map[uuid.UUID]domain.AttendanceSheet)}
}

func (r *memAttendance) Create(ctx context.Context, s *domain.AttendanceSheet) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sheets[s.ID] = *s
	return nil
}

func (r *memAttendance) Update(ctx context.Context, s *domain.AttendanceSheet) error {
	if _, ok := r.sheets[s.ID]; !ok {
		return repository.ErrNotFound
	}
	r.sheets[s.ID] = *s
	return nil
}

func (r *memAttendance) GetByID(ctx context.Context, id uuid.UUID) (*domain.AttendanceSheet, error) {
	s, ok := r.sheets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *memAttendance) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]domain.AttendanceSheet, error) {
	out := make([]domain.AttendanceSheet, 0)
	for _, s := range r.sheets {
		if s.CourseID == courseID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memAttendance) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.sheets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.sheets, id)
	return nil
}

// ============================================================================
// Test server setup
// ============================================================================

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			RequestTimeout:  time.Minute,
			ShutdownTimeout: time.Second,
		},
		Import: config.ImportConfig{
			MaxFileSize: 1 << 20,
			Workers:     2,
		},
		Rate:    config.RateLimitConfig{Enabled: false},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func testServer(t *testing.T) (*Server, *memMembers) {
	t.Helper()

	members := newMemMembers()
	importer := ingest.NewImporter(repository.NewMemberStore(members), ingest.WithWorkers(2))

	srv := NewServer(testConfig(), Deps{
		Members:    members,
		Coaches:    newMemCoaches(),
		Courses:    newMemCourses(),
		Attendance: newMemAttendance(),
		Importer:   importer,
		Metrics:    metrics.New(),
	})
	return srv, members
}

func doJSON(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// ============================================================================
// Handler Tests
// ============================================================================

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMemberCRUD(t *testing.T) {
	srv, _ := testServer(t)

	// Create
	rec := doJSON(t, srv, http.MethodPost, "/api/members", map[string]interface{}{
		"name":    "Jean",
		"surname": "Dupont",
		"email":   "jean@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created domain.Member
	decodeBody(t, rec, &created)
	if created.ID == uuid.Nil {
		t.Fatal("created member has no ID")
	}
	if created.PaymentStatus != domain.PaymentPending {
		t.Errorf("PaymentStatus = %q, want default pending", created.PaymentStatus)
	}

	// Get
	rec = doJSON(t, srv, http.MethodGet, "/api/members/"+created.ID.String(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}

	// Update
	created.City = "Lyon"
	rec = doJSON(t, srv, http.MethodPut, "/api/members/"+created.ID.String(), created)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	var updated domain.Member
	decodeBody(t, rec, &updated)
	if updated.City != "Lyon" {
		t.Errorf("City = %q, want Lyon", updated.City)
	}

	// List
	rec = doJSON(t, srv, http.MethodGet, "/api/members", nil)
	var members []domain.Member
	decodeBody(t, rec, &members)
	if len(members) != 1 {
		t.Errorf("list has %d members, want 1", len(members))
	}

	// Delete
	rec = doJSON(t, srv, http.MethodDelete, "/api/members/"+created.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/members/"+created.ID.String(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCreateMember_MissingEmail(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/members", map[string]interface{}{
		"name": "Jean",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if !strings.Contains(resp.Error, "email") {
		t.Errorf("error = %q, want mention of email", resp.Error)
	}
}

func TestGetMember_BadID(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/members/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCourseValidation(t *testing.T) {
	srv, _ := testServer(t)

	coachID := uuid.New()
	tests := []struct {
		name string
		body map[string]interface{}
		want int
	}{
		{
			"valid",
			map[string]interface{}{
				"name": "Judo enfants", "weekday": 3, "startTime": "18:00",
				"endTime": "19:30", "coachId": coachID, "capacity": 20,
			},
			http.StatusCreated,
		},
		{
			"missing name",
			map[string]interface{}{"weekday": 3, "startTime": "18:00", "coachId": coachID},
			http.StatusBadRequest,
		},
		{
			"bad weekday",
			map[string]interface{}{"name": "Judo", "weekday": 9, "startTime": "18:00", "coachId": coachID},
			http.StatusBadRequest,
		},
		{
			"bad start time",
			map[string]interface{}{"name": "Judo", "weekday": 3, "startTime": "6pm", "coachId": coachID},
			http.StatusBadRequest,
		},
		{
			"missing coach",
			map[string]interface{}{"name": "Judo", "weekday": 3, "startTime": "18:00"},
			http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/api/courses", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestAttendanceFlow(t *testing.T) {
	srv, _ := testServer(t)

	courseID := uuid.New()
	memberID := uuid.New()

	rec := doJSON(t, srv, http.MethodPost, "/api/attendance", map[string]interface{}{
		"courseId": courseID,
		"date":     "2026-03-02T00:00:00Z",
		"entries": []map[string]interface{}{
			{"memberId": memberID, "present": true},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	var sheet domain.AttendanceSheet
	decodeBody(t, rec, &sheet)

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/courses/%s/attendance", courseID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var sheets []domain.AttendanceSheet
	decodeBody(t, rec, &sheets)
	if len(sheets) != 1 || len(sheets[0].Entries) != 1 || !sheets[0].Entries[0].Present {
		t.Errorf("sheets = %+v", sheets)
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/attendance/"+sheet.ID.String(), nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rec.Code)
	}
}

func TestDashboard(t *testing.T) {
	srv, members := testServer(t)

	paid := domain.Member{Email: "paid@example.com", PaymentStatus: domain.PaymentPaid}
	pending := domain.Member{Email: "pending@example.com", PaymentStatus: domain.PaymentPending}
	members.Create(context.Background(), &paid)
	members.Create(context.Background(), &pending)

	rec := doJSON(t, srv, http.MethodGet, "/api/dashboard", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var summary DashboardSummary
	decodeBody(t, rec, &summary)
	if summary.Members != 2 || summary.MembersPaid != 1 || summary.MembersPending != 1 {
		t.Errorf("summary = %+v", summary)
	}
}

// ============================================================================
// Import endpoint Tests
// ============================================================================

func uploadCSV(t *testing.T, srv *Server, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/imports/members", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestImportMembers_CSV(t *testing.T) {
	srv, members := testServer(t)

	csv := "Nom de l'adhérent;Prénom de l'adhérent;Email Facilement Joignable;Statut de la commande\n" +
		"Dupont;Jean;jean@example.com;Validé\n" +
		"Martin;Marie;marie@example.com;En attente\n"

	rec := uploadCSV(t, srv, "adherents.csv", csv)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result ingest.ProcessingResult
	decodeBody(t, rec, &result)
	if result.TotalRecords != 2 || result.NewRecords != 2 {
		t.Errorf("result = %+v, want 2 new records", result)
	}

	stored, _ := members.FindByEmail(context.Background(), "jean@example.com")
	if stored == nil || stored.PaymentStatus != domain.PaymentPaid {
		t.Errorf("stored = %+v, want paid member", stored)
	}

	// Re-uploading the same file updates in place.
	rec = uploadCSV(t, srv, "adherents.csv", csv)
	decodeBody(t, rec, &result)
	if result.NewRecords != 0 || result.UpdatedRecords != 2 {
		t.Errorf("re-upload result = %+v, want 2 updated", result)
	}
}

func TestImportMembers_UnreadableFile(t *testing.T) {
	srv, members := testServer(t)

	rec := uploadCSV(t, srv, "broken.xlsx", "this is not a spreadsheet")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, malformed data is reported, not a failure", rec.Code)
	}

	var result ingest.ProcessingResult
	decodeBody(t, rec, &result)
	if result.TotalRecords != 0 || len(result.Errors) != 1 {
		t.Errorf("result = %+v, want zero records and one error", result)
	}

	if all, _ := members.List(context.Background()); len(all) != 0 {
		t.Errorf("members = %+v, want nothing applied", all)
	}
}

func TestImportMembers_MissingFile(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/imports/members", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
