package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDataClient is a mock of the DataClient interface
type MockDataClient struct {
	mock.Mock
}

func (m *MockDataClient) FetchAll(ctx context.Context, collection CollectionName) ([]Record, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]Record), args.Error(1)
}

func (m *MockDataClient) Create(ctx context.Context, collection CollectionName, record Record) (Record, error) {
	args := m.Called(ctx, collection, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(Record), args.Error(1)
}

func (m *MockDataClient) Update(ctx context.Context, collection CollectionName, id string, partial Record) (Record, error) {
	args := m.Called(ctx, collection, id, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(Record), args.Error(1)
}

func (m *MockDataClient) Delete(ctx context.Context, collection CollectionName, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

func (m *MockDataClient) Count(ctx context.Context, collection CollectionName) int64 {
	args := m.Called(ctx, collection)
	return args.Get(0).(int64)
}

type stubRelay struct {
	err  error
	sent []string
}

func (r *stubRelay) Send(_ context.Context, link string) error {
	r.sent = append(r.sent, link)
	return r.err
}

var testNow = time.Date(2025, 5, 14, 10, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{
		Location:          time.UTC,
		FormSuccessDelay:  time.Second,
		RelaySuccessDelay: 3 * time.Second,
		Universities:      NewOptionSet("university", "TUM", "LMU"),
		Topics:            NewOptionSet("topic", "AI", "Robotics"),
		Now:               func() time.Time { return testNow },
	}
}

func eventRecords() []Record {
	return []Record{
		{
			"id": "1", "title": "Demo Day", "start_date": time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC),
			"start_time": "18:00:00", "location": "Munich", "status": "published", "format": "in-person",
			"description": "Pitches from **ten** teams", "is_highlight": false,
		},
		{
			"id": "2", "title": "AI Meetup", "start_date": time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
			"status": "draft", "is_highlight": true,
		},
	}
}

func perform(handler gin.HandlerFunc, method string, target string, body string, params ...gin.Param) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = params
	c.Request = httptest.NewRequest(method, target, bytes.NewBufferString(body)).WithContext(sessionCtx())

	handler(c)

	return w
}

type listResponse struct {
	Banner       Banner          `json:"banner"`
	View         ViewMode        `json:"view"`
	Total        int             `json:"total"`
	Showing      int             `json:"showing"`
	EmptyMessage string          `json:"empty_message"`
	Items        json.RawMessage `json:"items"`
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	return out
}

func TestHandlers_ListEvents(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		target         string
		records        []Record
		fetchErr       error
		expectedStatus int
		check          func(t *testing.T, got listResponse)
	}{
		{
			name:           "cards",
			target:         "/api/events",
			records:        eventRecords(),
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, got listResponse) {
				assert.Equal(t, ViewCard, got.View)
				assert.Equal(t, 2, got.Showing)
				assert.Equal(t, "loaded", got.Banner.State)

				var items []Event
				require.NoError(t, json.Unmarshal(got.Items, &items))
				assert.Equal(t, "Demo Day", items[0].Title)
			},
		},
		{
			name:           "search",
			target:         "/api/events?q=munich",
			records:        eventRecords(),
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, got listResponse) {
				assert.Equal(t, 2, got.Total)
				assert.Equal(t, 1, got.Showing)
			},
		},
		{
			name:           "search without results",
			target:         "/api/events?q=berlin",
			records:        eventRecords(),
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, got listResponse) {
				assert.Equal(t, "No events match your search criteria", got.EmptyMessage)
			},
		},
		{
			name:           "empty collection",
			target:         "/api/events",
			records:        []Record{},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, got listResponse) {
				assert.Equal(t, "No events available", got.EmptyMessage)
			},
		},
		{
			name:           "table",
			target:         "/api/events?view=table",
			records:        eventRecords(),
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, got listResponse) {
				var rows []EventRow
				require.NoError(t, json.Unmarshal(got.Items, &rows))
				require.Len(t, rows, 2)
				assert.Equal(t, "May 14, 2025, 6:00 PM", rows[0].Start)
				assert.Equal(t, "Published", rows[0].Status)
				assert.Equal(t, "Draft", rows[1].Status)
			},
		},
		{
			name:           "chronological",
			target:         "/api/events?view=chronological",
			records:        eventRecords(),
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, got listResponse) {
				var groups []DayGroup[Event]
				require.NoError(t, json.Unmarshal(got.Items, &groups))
				require.Len(t, groups, 2)
				assert.Equal(t, "Today", groups[0].Label)
				assert.Equal(t, "May 20", groups[1].Label)
			},
		},
		{
			name:           "unknown view",
			target:         "/api/events?view=kanban",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "access denied",
			target:         "/api/events",
			fetchErr:       newClientError(ErrAccessDenied, CollectionEvents, "fetch", "Access denied to events.", nil),
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := new(MockDataClient)
			if tt.records != nil || tt.fetchErr != nil {
				client.On("FetchAll", mock.Anything, CollectionEvents).Return(tt.records, tt.fetchErr)
			}

			h := NewHandlers(client, &stubRelay{}, testSettings())
			w := perform(h.Events().List, http.MethodGet, tt.target, "")

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.check != nil {
				tt.check(t, decodeBody[listResponse](t, w))
			}

			client.AssertExpectations(t)
		})
	}
}

func TestHandlers_StudentClubsHaveNoChronologicalView(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	client := new(MockDataClient)
	h := NewHandlers(client, &stubRelay{}, testSettings())

	w := perform(h.StudentClubs().List, http.MethodGet, "/api/student-clubs?view=chronological", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Chronological view is not available for student clubs")
	client.AssertExpectations(t)
}

func TestHandlers_GetEvent(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{name: "success", id: "1", expectedStatus: http.StatusOK},
		{name: "not found", id: "404", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := new(MockDataClient)
			client.On("FetchAll", mock.Anything, CollectionEvents).Return(eventRecords(), nil)

			h := NewHandlers(client, &stubRelay{}, testSettings())
			w := perform(h.Events().Get, http.MethodGet, "/api/events/"+tt.id, "", gin.Param{Key: "id", Value: tt.id})

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				detail := decodeBody[map[string]any](t, w)
				assert.Equal(t, "Demo Day", detail["title"])
				assert.Equal(t, "May 14, 2025, 6:00 PM", detail["start_display"])
				assert.Equal(t, "In person", detail["format_label"])
				assert.Equal(t, "<p>Pitches from <strong>ten</strong> teams</p>\n", detail["description_html"])

				form, ok := detail["form"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "18:00", form["start_time"])
			} else {
				assert.Contains(t, w.Body.String(), msgNotFound)
			}

			client.AssertExpectations(t)
		})
	}
}

func TestHandlers_PostEvent(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	valid := `{"title":"Demo Day","start_date":"2025-05-14","start_time":"18:00","format":"in-person","status":"published","category":"meetup"}`

	tests := []struct {
		name           string
		body           string
		createErr      error
		expectedStatus int
		expectedMsg    string
	}{
		{name: "success", body: valid, expectedStatus: http.StatusCreated, expectedMsg: "Event created successfully!"},
		{
			name:           "validation failure",
			body:           `{"start_date":"2025-05-14","format":"online","status":"draft","category":"meetup"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "Title is required",
		},
		{
			name:           "end before start",
			body:           `{"title":"Demo Day","start_date":"2025-03-01","end_date":"2025-02-28","format":"in-person","status":"draft","category":"workshop"}`,
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "End date must be on or after the start date",
		},
		{name: "invalid json", body: "invalid", expectedStatus: http.StatusBadRequest},
		{
			name:           "duplicate",
			body:           valid,
			createErr:      newClientError(ErrDuplicate, CollectionEvents, "create", msgDuplicate, nil),
			expectedStatus: http.StatusConflict,
			expectedMsg:    msgDuplicate,
		},
		{
			name:           "check constraint",
			body:           valid,
			createErr:      newClientError(ErrInvalidValue, CollectionEvents, "create", msgInvalidValue, nil),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedMsg:    msgInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := new(MockDataClient)

			if tt.expectedStatus == http.StatusCreated || tt.createErr != nil {
				matches := mock.MatchedBy(func(r Record) bool {
					return r["title"] == "Demo Day" && r["start_time"] == "18:00:00" && r["format"] == "in-person"
				})

				if tt.createErr != nil {
					client.On("Create", mock.Anything, CollectionEvents, matches).Return(nil, tt.createErr)
				} else {
					client.On("Create", mock.Anything, CollectionEvents, matches).Return(Record{"id": "1", "title": "Demo Day"}, nil)
					client.On("FetchAll", mock.Anything, CollectionEvents).Return(eventRecords(), nil)
				}
			}

			h := NewHandlers(client, &stubRelay{}, testSettings())
			w := perform(h.Events().Post, http.MethodPost, "/api/events", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedMsg != "" {
				assert.Contains(t, w.Body.String(), tt.expectedMsg)
			}

			client.AssertExpectations(t)

			if tt.expectedStatus == http.StatusBadRequest {
				client.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestHandlers_PutScholarship(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	client := new(MockDataClient)
	client.On("Update", mock.Anything, CollectionScholarships, "s1", mock.MatchedBy(func(r Record) bool {
		return r["award_currency"] == "EUR" && r["status"] == "closed"
	})).Return(Record{"id": "s1", "title": "DAAD", "status": "closed"}, nil)
	client.On("FetchAll", mock.Anything, CollectionScholarships).Return([]Record{{"id": "s1", "title": "DAAD", "status": "closed"}}, nil)

	h := NewHandlers(client, &stubRelay{}, testSettings())
	w := perform(h.Scholarships().Put, http.MethodPut, "/api/scholarships/s1",
		`{"title":"DAAD","start_date":"2025-06-01","status":"closed"}`, gin.Param{Key: "id", Value: "s1"})

	assert.Equal(t, http.StatusOK, w.Code)

	got := decodeBody[MutationView](t, w)
	assert.Equal(t, "succeeded", got.Banner.State)
	assert.Equal(t, "Scholarship updated successfully!", got.Banner.Message)
	assert.Equal(t, int64(1000), got.Banner.ClearAfterMS)

	client.AssertExpectations(t)
}

func TestHandlers_DeleteEvent(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	t.Run("asks for confirmation", func(t *testing.T) {
		t.Parallel()

		client := new(MockDataClient)
		client.On("FetchAll", mock.Anything, CollectionEvents).Return(eventRecords(), nil)

		h := NewHandlers(client, &stubRelay{}, testSettings())
		w := perform(h.Events().Delete, http.MethodDelete, "/api/events/1", "", gin.Param{Key: "id", Value: "1"})

		assert.Equal(t, http.StatusPreconditionRequired, w.Code)

		got := decodeBody[MutationView](t, w)
		assert.Equal(t, "confirming_delete", got.Banner.State)
		assert.Equal(t, `Are you sure you want to delete "Demo Day"?`, got.Banner.Prompt)

		client.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirmed", func(t *testing.T) {
		t.Parallel()

		client := new(MockDataClient)
		client.On("FetchAll", mock.Anything, CollectionEvents).Return(eventRecords(), nil)
		client.On("Delete", mock.Anything, CollectionEvents, "1").Return(nil)

		h := NewHandlers(client, &stubRelay{}, testSettings())
		w := perform(h.Events().Delete, http.MethodDelete, "/api/events/1?confirm=true", "", gin.Param{Key: "id", Value: "1"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Event deleted successfully!", decodeBody[MutationView](t, w).Banner.Message)
		client.AssertExpectations(t)
	})

	t.Run("backend refuses", func(t *testing.T) {
		t.Parallel()

		client := new(MockDataClient)
		client.On("FetchAll", mock.Anything, CollectionEvents).Return(eventRecords(), nil)
		client.On("Delete", mock.Anything, CollectionEvents, "1").Return(errors.New("permission denied for table events"))

		h := NewHandlers(client, &stubRelay{}, testSettings())
		w := perform(h.Events().Delete, http.MethodDelete, "/api/events/1?confirm=true", "", gin.Param{Key: "id", Value: "1"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "permission denied for table events")
		client.AssertExpectations(t)
	})
}

func TestHandlers_ToggleHighlight(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	client := new(MockDataClient)
	client.On("FetchAll", mock.Anything, CollectionEvents).Return(eventRecords(), nil)
	client.On("Update", mock.Anything, CollectionEvents, "2", Record{"is_highlight": false}).
		Return(Record{"id": "2", "title": "AI Meetup", "is_highlight": false}, nil)

	h := NewHandlers(client, &stubRelay{}, testSettings())
	w := perform(h.Events().ToggleHighlight, http.MethodPatch, "/api/events/2/highlight", "", gin.Param{Key: "id", Value: "2"})

	assert.Equal(t, http.StatusOK, w.Code)
	client.AssertExpectations(t)

	w = perform(h.StudentClubs().ToggleHighlight, http.MethodPatch, "/api/student-clubs/7/highlight", "", gin.Param{Key: "id", Value: "7"})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandlers_Signups(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	client := new(MockDataClient)
	client.On("FetchAll", mock.Anything, CollectionSignups).Return([]Record{{"id": "u1", "email": "ada@example.com"}}, nil)

	h := NewHandlers(client, &stubRelay{}, testSettings())

	w := perform(h.Signups().List, http.MethodGet, "/api/signups?q=ada", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decodeBody[listResponse](t, w).Showing)

	w = perform(h.Signups().Post, http.MethodPost, "/api/signups", `{"email":"x@example.com"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	client.AssertExpectations(t)
	client.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandlers_Dashboard(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	setup := func(signups int64, calendarErr error) *MockDataClient {
		client := new(MockDataClient)
		client.On("Count", mock.Anything, CollectionEvents).Return(int64(12))
		client.On("Count", mock.Anything, CollectionHackathons).Return(int64(3))
		client.On("Count", mock.Anything, CollectionScholarships).Return(int64(0))
		client.On("Count", mock.Anything, CollectionStudentClubs).Return(int64(40))
		client.On("Count", mock.Anything, CollectionSignups).Return(signups)
		client.On("FetchAll", mock.Anything, CollectionEvents).Return(eventRecords(), nil)
		client.On("FetchAll", mock.Anything, CollectionHackathons).Return([]Record{}, nil)

		if calendarErr != nil {
			client.On("FetchAll", mock.Anything, CollectionScholarships).Return(nil, calendarErr)
		} else {
			client.On("FetchAll", mock.Anything, CollectionScholarships).Return([]Record{
				{"id": "s1", "title": "Deutschlandstipendium", "start_date": time.Date(2025, 5, 30, 8, 0, 0, 0, time.UTC)},
			}, nil)
		}

		return client
	}

	t.Run("stats and calendar", func(t *testing.T) {
		t.Parallel()

		client := setup(57, nil)
		h := NewHandlers(client, &stubRelay{}, testSettings())
		w := perform(h.Dashboard, http.MethodGet, "/api/dashboard", "")

		assert.Equal(t, http.StatusOK, w.Code)

		got := decodeBody[DashboardView](t, w)
		assert.Equal(t, DashboardStats{Events: 12, Hackathons: 3, Scholarships: 0, StudentClubs: 40, Signups: 57}, got.Stats)
		require.Len(t, got.Cards, 5)
		assert.Equal(t, StatCard{Label: "Signups", Value: 57, Link: "/dashboard/signups"}, got.Cards[4])
		require.NotNil(t, got.Calendar)
		assert.Equal(t, "2025-05", got.Calendar.Month)
		assert.Len(t, got.Calendar.Upcoming, 3)
		assert.Empty(t, got.CalendarError)

		client.AssertExpectations(t)
	})

	t.Run("calendar failure keeps stats", func(t *testing.T) {
		t.Parallel()

		client := setup(0, newClientError(ErrAccessDenied, CollectionScholarships, "fetch", "Access denied to scholarships.", nil))
		h := NewHandlers(client, &stubRelay{}, testSettings())
		w := perform(h.Dashboard, http.MethodGet, "/api/dashboard", "")

		assert.Equal(t, http.StatusOK, w.Code)

		got := decodeBody[DashboardView](t, w)
		assert.Equal(t, int64(12), got.Stats.Events)
		assert.Zero(t, got.Stats.Signups)
		client.AssertCalled(t, "Count", mock.Anything, CollectionSignups)
		assert.Nil(t, got.Calendar)
		assert.Equal(t, "Access denied to scholarships.", got.CalendarError)
	})
}

func TestHandlers_Calendar(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	client := new(MockDataClient)
	h := NewHandlers(client, &stubRelay{}, testSettings())

	w := perform(h.Calendar, http.MethodGet, "/api/calendar?month=May", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Month must look like YYYY-MM")
	client.AssertExpectations(t)
}

func TestHandlers_StudentClubOptions(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	h := NewHandlers(new(MockDataClient), &stubRelay{}, testSettings())
	w := perform(h.StudentClubOptions, http.MethodGet, "/api/student-clubs/options", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ClubOptionsView{Universities: []string{"TUM", "LMU"}, Topics: []string{"AI", "Robotics"}}, decodeBody[ClubOptionsView](t, w))
}

func TestHandlers_RelayScholarship(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		relay := &stubRelay{}
		h := NewHandlers(new(MockDataClient), relay, testSettings())
		w := perform(h.RelayScholarship, http.MethodPost, "/api/scholarships/relay", `{"scholarship_link":"https://daad.de/42"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"https://daad.de/42"}, relay.sent)

		got := decodeBody[MutationView](t, w)
		assert.Equal(t, "Scholarship link sent successfully!", got.Banner.Message)
		assert.Equal(t, int64(3000), got.Banner.ClearAfterMS)
	})

	t.Run("webhook failure", func(t *testing.T) {
		t.Parallel()

		relay := &stubRelay{err: &RelayError{StatusCode: 404, Status: "Not Found"}}
		h := NewHandlers(new(MockDataClient), relay, testSettings())
		w := perform(h.RelayScholarship, http.MethodPost, "/api/scholarships/relay", `{"scholarship_link":"https://daad.de/42"}`)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Webhook request failed: Not Found")
	})

	t.Run("no session", func(t *testing.T) {
		t.Parallel()

		relay := &stubRelay{}
		h := NewHandlers(new(MockDataClient), relay, testSettings())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/scholarships/relay", bytes.NewBufferString(`{"scholarship_link":"x"}`))

		h.RelayScholarship(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, relay.sent)
	})
}

func TestRegisterRoutes(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	member := adminClaims()
	member.AppMetadata = nil

	tests := []struct {
		name           string
		method         string
		target         string
		token          string
		expectedStatus int
	}{
		{name: "navigation", method: http.MethodGet, target: "/api/navigation", token: signToken(t, testSecret, jwt.SigningMethodHS256, adminClaims()), expectedStatus: http.StatusOK},
		{name: "club options beside id route", method: http.MethodGet, target: "/api/student-clubs/options", token: signToken(t, testSecret, jwt.SigningMethodHS256, adminClaims()), expectedStatus: http.StatusOK},
		{name: "non admin", method: http.MethodGet, target: "/api/navigation", token: signToken(t, testSecret, jwt.SigningMethodHS256, member), expectedStatus: http.StatusForbidden},
		{name: "signups are not writable", method: http.MethodPut, target: "/api/signups/1", token: signToken(t, testSecret, jwt.SigningMethodHS256, adminClaims()), expectedStatus: http.StatusNotFound},
		{name: "anonymous list fails at the data client", method: http.MethodGet, target: "/api/events", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := new(MockDataClient)
			client.On("FetchAll", mock.Anything, CollectionEvents).
				Return(nil, newClientError(ErrAuth, CollectionEvents, "fetch", msgAuth, nil)).Maybe()

			router := gin.New()
			RegisterRoutes(router, NewHandlers(client, &stubRelay{}, testSettings()), NewSessionParser(testSecret), "admin")

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.target, nil)

			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			client.AssertExpectations(t)
		})
	}
}
