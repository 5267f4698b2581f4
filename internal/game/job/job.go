// Package job implements the solo timed reaction-order minigame: a player
// receives a recipe and must click its reaction tokens in order before the
// time limit runs out.
package job

import (
	"math/rand"
	"sync"
	"time"
)

// Recipe is the ordered token sequence and reward parameters for one job.
type Recipe struct {
	Key       string
	Name      string
	Steps     []string
	Reward    int64
	TimeLimit time.Duration
}

// catalog is the fixed set of recipes a job is drawn from.
var catalog = []Recipe{
	{
		Key:       "burger",
		Name:      "🍔 Burger",
		Steps:     []string{"🥖", "🥩", "🧀", "🥬", "🍅"},
		Reward:    50,
		TimeLimit: 20 * time.Second,
	},
	{
		Key:       "pizza",
		Name:      "🍕 Pizza",
		Steps:     []string{"🫓", "🍅", "🧀", "🍕"},
		Reward:    60,
		TimeLimit: 15 * time.Second,
	},
	{
		Key:       "tacos",
		Name:      "🌮 Tacos",
		Steps:     []string{"🫓", "🥩", "🥬", "🧀", "🌶️"},
		Reward:    45,
		TimeLimit: 15 * time.Second,
	},
	{
		Key:       "sushi",
		Name:      "🍣 Sushi",
		Steps:     []string{"🍚", "🐟", "🥢"},
		Reward:    70,
		TimeLimit: 12 * time.Second,
	},
	{
		Key:       "salad",
		Name:      "🥗 Salad",
		Steps:     []string{"🥬", "🍅", "🥒", "🥕"},
		Reward:    35,
		TimeLimit: 12 * time.Second,
	},
}

// Catalog returns a copy of the recipe catalog.
func Catalog() []Recipe {
	out := make([]Recipe, len(catalog))
	copy(out, catalog)
	return out
}

// PickRecipe draws a recipe uniformly at random from the catalog.
func PickRecipe(rng *rand.Rand) Recipe {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return catalog[rng.Intn(len(catalog))]
}

// ShuffledPalette returns the recipe's tokens in random order, for pre-adding
// reactions to the job message without revealing the sequence.
func ShuffledPalette(r Recipe, rng *rand.Rand) []string {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	palette := make([]string, len(r.Steps))
	copy(palette, r.Steps)
	rng.Shuffle(len(palette), func(i, j int) {
		palette[i], palette[j] = palette[j], palette[i]
	})
	return palette
}

// Session is one user's active job. The step cursor only moves forward; a
// wrong reaction leaves the session untouched.
type Session struct {
	mu          sync.Mutex
	userID      string
	recipe      Recipe
	channelID   string
	messageID   string
	currentStep int
	startTime   time.Time
	completed   bool
	now         func() time.Time
}

// NewSession starts a job session for userID with the given recipe. The clock
// may be fixed in tests; nil uses time.Now.
func NewSession(userID string, recipe Recipe, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{
		userID:    userID,
		recipe:    recipe,
		startTime: now(),
		now:       now,
	}
}

// UserID returns the owning user.
func (s *Session) UserID() string {
	return s.userID
}

// Recipe returns the session's recipe.
func (s *Session) Recipe() Recipe {
	return s.recipe
}

// SetMessage records where the job message was posted.
func (s *Session) SetMessage(channelID, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channelID = channelID
	s.messageID = messageID
}

// Message returns the channel and message the job is played on.
func (s *Session) Message() (channelID, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channelID, s.messageID
}

// MatchesMessage reports whether messageID is the job's own message.
func (s *Session) MatchesMessage(messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageID != "" && s.messageID == messageID
}

// CurrentExpected returns the token required at the current step, or false if
// the recipe is already fully consumed.
func (s *Session) CurrentExpected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentStep >= len(s.recipe.Steps) {
		return "", false
	}
	return s.recipe.Steps[s.currentStep], true
}

// IsExpired reports whether the time limit has elapsed since the session
// started.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.startTime) > s.recipe.TimeLimit
}

// Advance moves the cursor past the current step after a correct token and
// reports whether the recipe is now fully consumed.
func (s *Session) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentStep < len(s.recipe.Steps) {
		s.currentStep++
	}
	return s.currentStep >= len(s.recipe.Steps)
}

// Progress returns the completed step count and the recipe length.
func (s *Session) Progress() (done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStep, len(s.recipe.Steps)
}

// MarkCompleted flags the session as completed so the expiry watchdog leaves
// it alone.
func (s *Session) MarkCompleted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed = true
}

// Completed reports whether the session finished its recipe.
func (s *Session) Completed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completed
}
