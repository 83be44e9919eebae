package dialog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aayushs/campusguide/internal/domain"
	"github.com/aayushs/campusguide/internal/intent"
	"github.com/aayushs/campusguide/internal/metrics"
	"github.com/aayushs/campusguide/internal/session"
)

type stubRepo struct {
	campus   domain.CampusMap
	teachers map[string][]domain.Teacher
	mapErr   error
	dirErr   error
	lookups  []string
}

func (r *stubRepo) FetchCampusMap(context.Context) (domain.CampusMap, error) {
	if r.mapErr != nil {
		return nil, r.mapErr
	}
	return r.campus, nil
}

func (r *stubRepo) FindTeachersByFirstName(_ context.Context, firstName string) ([]domain.Teacher, error) {
	r.lookups = append(r.lookups, firstName)
	if r.dirErr != nil {
		return nil, r.dirErr
	}
	return r.teachers[firstName], nil
}

func testCampus() domain.CampusMap {
	m := make(domain.CampusMap)
	m.AddConnection("AB1_ENTRANCE", "AB1_LIFT", domain.Connection{Weight: 5, Instruction: "take the corridor"})
	m.AddConnection("AB1_LIFT", "AB1_303", domain.Connection{Weight: 2, Instruction: "turn left"})
	m.AddConnection("AB1_ENTRANCE", "AB2_112", domain.Connection{Weight: 4, Instruction: "cross the courtyard"})
	m.AddLocation("AB1_303")
	m.AddLocation("AB2_112")
	m.AddLocation("GYM")
	return m
}

var sneha = domain.Teacher{
	FirstName: "Sneha", LastName: "Verma",
	Phone: "987-654-3210", Email: "sneha.verma@example.com",
	Cabin: "AB2_112", Building: "AB2", Department: "Electronics",
}

func newTestController(repo *stubRepo) (*Controller, *session.Store) {
	store := session.NewStore(0)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := New(logger, repo, intent.New(intent.DefaultThreshold), nil, store, nil)
	return c, store
}

func mustState(t *testing.T, store *session.Store, userID string, want session.State) session.Session {
	t.Helper()
	snap, ok := store.Snapshot(userID)
	require.True(t, ok)
	require.Equal(t, want, snap.State)
	return snap
}

func TestHandle_SmallTalk(t *testing.T) {
	c, store := newTestController(&stubRepo{campus: testCampus()})
	ctx := context.Background()

	cases := []struct {
		message string
		want    string
	}{
		{"hello", replyGreeting},
		{"thanks", replyThanks},
		{"bye", replyGoodbye},
		{"what can you do", replyAbout},
		{"qwerty asdf", replyFallback},
	}
	for _, tc := range cases {
		reply, err := c.Handle(ctx, "u1", tc.message)
		require.NoError(t, err, "message %q", tc.message)
		assert.Equal(t, tc.want, reply, "message %q", tc.message)
	}
	mustState(t, store, "u1", session.StateIdle)
}

func TestHandle_EmptyUserIDFallsBackToDefault(t *testing.T) {
	c, store := newTestController(&stubRepo{campus: testCampus()})

	_, err := c.Handle(context.Background(), "  ", "hello")
	require.NoError(t, err)

	_, ok := store.Snapshot(DefaultUserID)
	assert.True(t, ok)
}

func TestHandle_NavigationFullFlow(t *testing.T) {
	c, store := newTestController(&stubRepo{campus: testCampus()})
	ctx := context.Background()

	reply, err := c.Handle(ctx, "u1", "navigate from ab1_entrance to ab1_303")
	require.NoError(t, err)
	assert.Equal(t, "Okay, starting navigation from AB1_ENTRANCE to AB1_303. First, take the corridor to reach AB1_LIFT. Let me know when you're there.", reply)

	snap := mustState(t, store, "u1", session.StateNavigationConfirm)
	require.NotNil(t, snap.Navigation)
	assert.Equal(t, []string{"AB1_ENTRANCE", "AB1_LIFT", "AB1_303"}, snap.Navigation.Nodes)
	assert.Equal(t, 0, snap.Navigation.Step)

	// Non-affirming message re-prompts without advancing.
	reply, err = c.Handle(ctx, "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, replyWaiting, reply)
	snap = mustState(t, store, "u1", session.StateNavigationConfirm)
	assert.Equal(t, 0, snap.Navigation.Step)

	reply, err = c.Handle(ctx, "u1", "yes")
	require.NoError(t, err)
	assert.Equal(t, "Great! Now, turn left to reach AB1_303. Let me know when you've reached.", reply)
	snap = mustState(t, store, "u1", session.StateNavigationConfirm)
	assert.Equal(t, 1, snap.Navigation.Step)

	reply, err = c.Handle(ctx, "u1", "I have reached")
	require.NoError(t, err)
	assert.Equal(t, replyArrived, reply)
	snap = mustState(t, store, "u1", session.StateIdle)
	assert.Nil(t, snap.Navigation)
}

func TestHandle_NavigationUnknownLocation(t *testing.T) {
	c, store := newTestController(&stubRepo{campus: testCampus()})

	reply, err := c.Handle(context.Background(), "u1", "navigate from AB1_ENTRANCE to NOWHERE_9")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I don't recognize the location NOWHERE_9. Please use known location names.", reply)
	mustState(t, store, "u1", session.StateIdle)
}

func TestHandle_NavigationBothLocationsUnknown(t *testing.T) {
	c, _ := newTestController(&stubRepo{campus: testCampus()})

	reply, err := c.Handle(context.Background(), "u1", "navigate from X_1 to Y_2")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I don't recognize these locations: X_1 or Y_2. Please use known location names.", reply)
}

func TestHandle_NavigationNoPath(t *testing.T) {
	c, store := newTestController(&stubRepo{campus: testCampus()})

	reply, err := c.Handle(context.Background(), "u1", "navigate from AB1_303 to GYM")
	require.NoError(t, err)
	assert.Equal(t, "I'm sorry, I couldn't find a path from AB1_303 to GYM.", reply)
	mustState(t, store, "u1", session.StateIdle)
}

func TestHandle_NavigationAlreadyThere(t *testing.T) {
	c, store := newTestController(&stubRepo{campus: testCampus()})

	reply, err := c.Handle(context.Background(), "u1", "navigate from GYM to GYM")
	require.NoError(t, err)
	assert.Equal(t, "You are already at GYM!", reply)
	mustState(t, store, "u1", session.StateIdle)
}

func TestHandle_NavigationMissingEndpoints(t *testing.T) {
	c, store := newTestController(&stubRepo{campus: testCampus()})

	reply, err := c.Handle(context.Background(), "u1", "find")
	require.NoError(t, err)
	assert.Equal(t, replyAskEndpoints, reply)
	mustState(t, store, "u1", session.StateIdle)
}

func TestHandle_TeacherSingleMatchThenNavigate(t *testing.T) {
	repo := &stubRepo{
		campus:   testCampus(),
		teachers: map[string][]domain.Teacher{"Sneha": {sneha}},
	}
	c, store := newTestController(repo)
	ctx := context.Background()

	reply, err := c.Handle(ctx, "u1", "Who is Sneha Verma?")
	require.NoError(t, err)
	assert.Equal(t, teacherDetails(sneha), reply)
	assert.Equal(t, []string{"Sneha"}, repo.lookups)

	snap := mustState(t, store, "u1", session.StateNavigateToTeacherConfirm)
	assert.Equal(t, "AB2_112", snap.PendingCabin)

	// Bare affirmation asks for a starting point and stays put.
	reply, err = c.Handle(ctx, "u1", "yes")
	require.NoError(t, err)
	assert.Contains(t, reply, "Where are you right now?")
	assert.Contains(t, reply, "AB2_112")
	mustState(t, store, "u1", session.StateNavigateToTeacherConfirm)

	reply, err = c.Handle(ctx, "u1", "from AB1_ENTRANCE")
	require.NoError(t, err)
	assert.Equal(t, "Okay, starting navigation from AB1_ENTRANCE to AB2_112. First, cross the courtyard to reach AB2_112. Let me know when you're there.", reply)
	mustState(t, store, "u1", session.StateNavigationConfirm)

	reply, err = c.Handle(ctx, "u1", "ok reached")
	require.NoError(t, err)
	assert.Equal(t, replyArrived, reply)
	mustState(t, store, "u1", session.StateIdle)
}

func TestHandle_TeacherConfirmWithInlineStart(t *testing.T) {
	repo := &stubRepo{
		campus:   testCampus(),
		teachers: map[string][]domain.Teacher{"Sneha": {sneha}},
	}
	c, store := newTestController(repo)
	ctx := context.Background()

	_, err := c.Handle(ctx, "u1", "who is Sneha")
	require.NoError(t, err)

	// "yes, from X" both affirms and names the start; the start wins.
	reply, err := c.Handle(ctx, "u1", "yes, from ab1_entrance")
	require.NoError(t, err)
	assert.Contains(t, reply, "starting navigation from AB1_ENTRANCE to AB2_112")
	mustState(t, store, "u1", session.StateNavigationConfirm)
}

func TestHandle_TeacherConfirmDeclined(t *testing.T) {
	repo := &stubRepo{
		campus:   testCampus(),
		teachers: map[string][]domain.Teacher{"Sneha": {sneha}},
	}
	c, store := newTestController(repo)
	ctx := context.Background()

	_, err := c.Handle(ctx, "u1", "who is Sneha")
	require.NoError(t, err)

	reply, err := c.Handle(ctx, "u1", "no thanks")
	require.NoError(t, err)
	assert.Equal(t, replyNoProblem, reply)
	snap := mustState(t, store, "u1", session.StateIdle)
	assert.Empty(t, snap.PendingCabin)
}

func TestHandle_TeacherMultipleMatches(t *testing.T) {
	second := domain.Teacher{
		FirstName: "Sneha", LastName: "Rao",
		Phone: "111-222-3333", Email: "sneha.rao@example.com",
		Cabin: "AB1_303", Building: "AB1", Department: "Mathematics",
	}
	repo := &stubRepo{
		campus:   testCampus(),
		teachers: map[string][]domain.Teacher{"Sneha": {sneha, second}},
	}
	c, store := newTestController(repo)
	ctx := context.Background()

	reply, err := c.Handle(ctx, "u1", "who is Sneha")
	require.NoError(t, err)
	assert.Contains(t, reply, "I found multiple teachers with that name.")
	assert.Contains(t, reply, "1. Sneha Verma (Electronics)")
	assert.Contains(t, reply, "2. Sneha Rao (Mathematics)")
	snap := mustState(t, store, "u1", session.StateTeacherSelection)
	assert.Len(t, snap.Candidates, 2)

	// Malformed and out-of-range choices leave the list intact.
	reply, err = c.Handle(ctx, "u1", "the second one")
	require.NoError(t, err)
	assert.Equal(t, replyEnterNumber, reply)
	mustState(t, store, "u1", session.StateTeacherSelection)

	reply, err = c.Handle(ctx, "u1", "5")
	require.NoError(t, err)
	assert.Equal(t, replyInvalidChoice, reply)
	mustState(t, store, "u1", session.StateTeacherSelection)

	reply, err = c.Handle(ctx, "u1", "2")
	require.NoError(t, err)
	assert.Equal(t, teacherDetails(second), reply)
	snap = mustState(t, store, "u1", session.StateNavigateToTeacherConfirm)
	assert.Equal(t, "AB1_303", snap.PendingCabin)
	assert.Nil(t, snap.Candidates)
}

func TestHandle_TeacherNoMatch(t *testing.T) {
	c, store := newTestController(&stubRepo{campus: testCampus()})

	reply, err := c.Handle(context.Background(), "u1", "who is Zara")
	require.NoError(t, err)
	assert.Equal(t, "I couldn't find any teacher named Zara.", reply)
	mustState(t, store, "u1", session.StateIdle)
}

func TestHandle_TeacherNoNameGiven(t *testing.T) {
	c, _ := newTestController(&stubRepo{campus: testCampus()})

	reply, err := c.Handle(context.Background(), "u1", "tell me teacher details")
	require.NoError(t, err)
	assert.Equal(t, replyAskWho, reply)
}

func TestHandle_ProviderFailuresSurfaceAsErrors(t *testing.T) {
	repo := &stubRepo{mapErr: errors.New("neo4j down")}
	c, _ := newTestController(repo)

	_, err := c.Handle(context.Background(), "u1", "navigate from AB1_ENTRANCE to AB1_303")
	assert.Error(t, err)

	repo = &stubRepo{dirErr: errors.New("neo4j down")}
	c, _ = newTestController(repo)

	_, err = c.Handle(context.Background(), "u1", "who is Sneha")
	assert.Error(t, err)
}

func TestHandle_RepliesCountedOnlyOnSuccess(t *testing.T) {
	repo := &stubRepo{campus: testCampus(), mapErr: errors.New("neo4j down")}
	store := session.NewStore(0)
	registry := metrics.New(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := New(logger, repo, intent.New(intent.DefaultThreshold), nil, store, registry)
	ctx := context.Background()

	_, err := c.Handle(ctx, "u1", "navigate from AB1_ENTRANCE to AB1_303")
	require.Error(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(registry.DialogRepliesByState.WithLabelValues("idle")))

	_, err = c.Handle(ctx, "u1", "hello")
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(registry.DialogRepliesByState.WithLabelValues("idle")))
}

func TestHandle_UsersDoNotShareState(t *testing.T) {
	c, store := newTestController(&stubRepo{campus: testCampus()})
	ctx := context.Background()

	_, err := c.Handle(ctx, "u1", "navigate from AB1_ENTRANCE to AB1_303")
	require.NoError(t, err)
	mustState(t, store, "u1", session.StateNavigationConfirm)

	reply, err := c.Handle(ctx, "u2", "hello")
	require.NoError(t, err)
	assert.Equal(t, replyGreeting, reply)
	mustState(t, store, "u2", session.StateIdle)
}
