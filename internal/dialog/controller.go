// Package dialog is the conversational core: it interprets each incoming
// message against the user's current dialog state, classifies intent when the
// session is idle, and composes the campus map, path router, directory, and
// session store into a reply.
package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aayushs/campusguide/internal/domain"
	"github.com/aayushs/campusguide/internal/entity"
	"github.com/aayushs/campusguide/internal/intent"
	"github.com/aayushs/campusguide/internal/metrics"
	"github.com/aayushs/campusguide/internal/nav"
	"github.com/aayushs/campusguide/internal/session"
)

// DefaultUserID is assumed when the transport supplies no user identifier.
const DefaultUserID = "default_user"

// CampusRepository is the storage contract required by the controller.
type CampusRepository interface {
	FetchCampusMap(ctx context.Context) (domain.CampusMap, error)
	FindTeachersByFirstName(ctx context.Context, firstName string) ([]domain.Teacher, error)
}

// Controller drives the per-user dialog state machine.
type Controller struct {
	logger     *slog.Logger
	repo       CampusRepository
	classifier *intent.Classifier
	extractor  entity.Extractor
	sessions   *session.Store
	metrics    *metrics.Registry
}

// New wires a Controller. extractor may be nil, in which case the built-in
// heuristic extractor is used; registry may be nil to disable metrics.
func New(logger *slog.Logger, repo CampusRepository, classifier *intent.Classifier, extractor entity.Extractor, sessions *session.Store, registry *metrics.Registry) *Controller {
	if extractor == nil {
		extractor = entity.Heuristic{}
	}
	return &Controller{
		logger:     logger,
		repo:       repo,
		classifier: classifier,
		extractor:  extractor,
		sessions:   sessions,
		metrics:    registry,
	}
}

// Handle processes one message and returns the reply text. A non-nil error
// means an external provider failed and the transport should signal service
// unavailability; every conversational condition (unknown intent, missing
// entities, no path, bad choice) resolves into a reply instead.
func (c *Controller) Handle(ctx context.Context, userID, message string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		userID = DefaultUserID
	}
	message = strings.TrimSpace(message)

	var reply string
	var err error
	c.sessions.Update(userID, func(s *session.Session) {
		handledBy := string(s.State)
		reply, err = c.step(ctx, s, message)
		if err == nil {
			c.metrics.CountReply(handledBy)
		}
	})

	if err != nil {
		c.logger.Error("dialog step failed", "error", err, "userId", userID)
		return "", err
	}
	c.logger.Debug("reply produced", "userId", userID)
	return reply, nil
}

// step dispatches on the dialog state. Mid-dialog states pre-empt intent
// classification entirely.
func (c *Controller) step(ctx context.Context, s *session.Session, message string) (string, error) {
	switch s.State {
	case session.StateNavigationConfirm:
		return c.advanceNavigation(s, message), nil
	case session.StateTeacherSelection:
		return c.chooseTeacher(s, message), nil
	case session.StateNavigateToTeacherConfirm:
		return c.confirmCabinNavigation(ctx, s, message)
	}
	return c.handleIdle(ctx, s, message)
}

func (c *Controller) handleIdle(ctx context.Context, s *session.Session, message string) (string, error) {
	resolved := c.classifier.Classify(message)
	c.metrics.CountIntent(string(resolved))

	switch resolved {
	case intent.Greeting:
		return replyGreeting, nil
	case intent.Goodbye:
		return replyGoodbye, nil
	case intent.Thanks:
		return replyThanks, nil
	case intent.About:
		return replyAbout, nil
	case intent.Navigate:
		return c.startNavigation(ctx, s, message)
	case intent.TeacherInfo:
		return c.lookupTeacher(ctx, s, message)
	default:
		return replyFallback, nil
	}
}

// advanceNavigation handles the navigation_confirm state: an affirming
// message moves the user one node forward; anything else re-prompts.
func (c *Controller) advanceNavigation(s *session.Session, message string) string {
	if !affirms(message) {
		return replyWaiting
	}

	trip := s.Navigation
	if trip == nil || len(trip.Nodes) < 2 {
		// Payload invariant broken; recover rather than panic.
		s.Reset()
		return replyArrived
	}

	trip.Step++
	if trip.Step >= len(trip.Nodes)-1 {
		s.Reset()
		return replyArrived
	}
	return fmt.Sprintf("Great! Now, %s to reach %s. Let me know when you've reached.",
		trip.Instructions[trip.Step], trip.Nodes[trip.Step+1])
}

// chooseTeacher handles the teacher_selection state: a 1-based index into the
// candidate list. Malformed input leaves state and candidates untouched.
func (c *Controller) chooseTeacher(s *session.Session, message string) string {
	n, err := strconv.Atoi(strings.TrimSpace(message))
	if err != nil {
		return replyEnterNumber
	}
	if n < 1 || n > len(s.Candidates) {
		return replyInvalidChoice
	}

	t := s.Candidates[n-1]
	s.BeginCabinConfirm(t.Cabin)
	return teacherDetails(t)
}

// confirmCabinNavigation handles navigate_to_teacher_confirm. If the message
// names a starting location it begins navigation to the stored cabin; a bare
// affirmation asks where the user is; anything else drops back to idle.
func (c *Controller) confirmCabinNavigation(ctx context.Context, s *session.Session, message string) (string, error) {
	if start, ok := c.startingPoint(message); ok {
		return c.navigate(ctx, s, strings.ToUpper(start), strings.ToUpper(s.PendingCabin))
	}
	if affirms(message) {
		return fmt.Sprintf("Sure! Where are you right now? Tell me the nearest location, for example 'from AB1_ENTRANCE'. I'll guide you to %s.", s.PendingCabin), nil
	}
	s.Reset()
	return replyNoProblem, nil
}

// startingPoint pulls a start location out of a confirmation message, either
// from an explicit "from X" or from a lone location-looking token.
func (c *Controller) startingPoint(message string) (string, bool) {
	if tok, ok := entity.ScanAfter(message, "from"); ok {
		return tok, true
	}
	for _, span := range c.extractor.Extract(message) {
		if span.Category == entity.CategoryLocation {
			return span.Text, true
		}
	}
	return "", false
}

// startNavigation resolves both endpoints from the message and begins route
// delivery. The explicit "from X to Y" token scan is tried before generic
// location extraction because it is a distinct heuristic with its own failure
// mode.
func (c *Controller) startNavigation(ctx context.Context, s *session.Session, message string) (string, error) {
	start, end, ok := entity.ScanFromTo(message)
	if !ok {
		var locations []string
		for _, span := range c.extractor.Extract(message) {
			if span.Category == entity.CategoryLocation {
				locations = append(locations, span.Text)
			}
		}
		if len(locations) >= 2 {
			start, end = locations[0], locations[1]
		}
	}

	if start == "" || end == "" {
		return replyAskEndpoints, nil
	}
	return c.navigate(ctx, s, strings.ToUpper(start), strings.ToUpper(end))
}

// navigate is the shared navigation-start logic: rebuild the campus map,
// validate both endpoints, route, and seed the session payload. On any
// conversational failure the session state is left unchanged.
func (c *Controller) navigate(ctx context.Context, s *session.Session, start, end string) (string, error) {
	m, err := c.repo.FetchCampusMap(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch campus map: %w", err)
	}

	var unrecognized []string
	if !m.Contains(start) {
		unrecognized = append(unrecognized, start)
	}
	if !m.Contains(end) {
		unrecognized = append(unrecognized, end)
	}
	if len(unrecognized) > 0 {
		return fmt.Sprintf("Sorry, I don't recognize %s. Please use known location names.",
			joinLocationNames(unrecognized)), nil
	}

	route := nav.Route(m, start, end)
	if !route.Exists() {
		c.metrics.CountRoute("no_path")
		return fmt.Sprintf("I'm sorry, I couldn't find a path from %s to %s.", start, end), nil
	}
	c.metrics.CountRoute("found")

	if len(route.Nodes) < 2 {
		s.Reset()
		return fmt.Sprintf("You are already at %s!", end), nil
	}

	s.BeginNavigation(route.Nodes, route.Instructions)
	c.logger.Info("navigation started", "start", start, "end", end, "cost", route.Cost, "hops", len(route.Instructions))
	return fmt.Sprintf("Okay, starting navigation from %s to %s. First, %s to reach %s. Let me know when you're there.",
		start, end, route.Instructions[0], route.Nodes[1]), nil
}

// lookupTeacher handles the teacher_info intent from idle.
func (c *Controller) lookupTeacher(ctx context.Context, s *session.Session, message string) (string, error) {
	var name string
	for _, span := range c.extractor.Extract(message) {
		if span.Category == entity.CategoryPerson {
			name = span.Text
			break
		}
	}
	if name == "" {
		return replyAskWho, nil
	}
	firstName := strings.Fields(name)[0]

	teachers, err := c.repo.FindTeachersByFirstName(ctx, firstName)
	if err != nil {
		return "", fmt.Errorf("directory lookup: %w", err)
	}

	switch len(teachers) {
	case 0:
		return fmt.Sprintf("I couldn't find any teacher named %s.", firstName), nil
	case 1:
		t := teachers[0]
		s.BeginCabinConfirm(t.Cabin)
		return teacherDetails(t), nil
	default:
		var b strings.Builder
		b.WriteString("I found multiple teachers with that name. Please choose one:\n")
		for i, t := range teachers {
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, t.FullName(), t.Department)
		}
		s.BeginSelection(teachers)
		return b.String(), nil
	}
}

func teacherDetails(t domain.Teacher) string {
	return fmt.Sprintf("Here are the details for %s:\nEmail: %s\nPhone: %s\nCabin: %s in %s\nDepartment: %s.\n\nWould you like me to navigate you to their cabin?",
		t.FullName(), t.Email, t.Phone, t.Cabin, t.Building, t.Department)
}

// affirms reports whether the message confirms progress or agreement.
func affirms(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "yes") ||
		strings.Contains(lower, "ok") ||
		strings.Contains(lower, "reached")
}

func joinLocationNames(names []string) string {
	if len(names) == 1 {
		return "the location " + names[0]
	}
	return "these locations: " + strings.Join(names, " or ")
}
