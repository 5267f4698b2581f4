package job

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecipe() Recipe {
	return Recipe{
		Key:       "sushi",
		Name:      "🍣 Sushi",
		Steps:     []string{"🍚", "🐟", "🥢"},
		Reward:    70,
		TimeLimit: 12 * time.Second,
	}
}

func TestSession_AdvanceThroughRecipe(t *testing.T) {
	s := NewSession("alice", testRecipe(), nil)

	expected, ok := s.CurrentExpected()
	require.True(t, ok)
	assert.Equal(t, "🍚", expected)

	assert.False(t, s.Advance())
	expected, ok = s.CurrentExpected()
	require.True(t, ok)
	assert.Equal(t, "🐟", expected)

	assert.False(t, s.Advance())
	assert.True(t, s.Advance(), "third advance consumes the recipe")

	_, ok = s.CurrentExpected()
	assert.False(t, ok)

	done, total := s.Progress()
	assert.Equal(t, 3, done)
	assert.Equal(t, 3, total)

	// Cursor never moves past the end
	assert.True(t, s.Advance())
	done, _ = s.Progress()
	assert.Equal(t, 3, done)
}

func TestSession_Expiry(t *testing.T) {
	now := time.Now()
	clock := now
	s := NewSession("alice", testRecipe(), func() time.Time { return clock })

	assert.False(t, s.IsExpired())

	clock = now.Add(12 * time.Second)
	assert.False(t, s.IsExpired(), "exactly at the limit is not yet expired")

	clock = now.Add(12*time.Second + time.Millisecond)
	assert.True(t, s.IsExpired())
}

func TestSession_MessageMatching(t *testing.T) {
	s := NewSession("alice", testRecipe(), nil)

	assert.False(t, s.MatchesMessage(""), "no message recorded yet")
	s.SetMessage("chan-1", "msg-9")
	assert.True(t, s.MatchesMessage("msg-9"))
	assert.False(t, s.MatchesMessage("msg-8"))

	channelID, messageID := s.Message()
	assert.Equal(t, "chan-1", channelID)
	assert.Equal(t, "msg-9", messageID)
}

func TestSession_Completed(t *testing.T) {
	s := NewSession("alice", testRecipe(), nil)
	assert.False(t, s.Completed())
	s.MarkCompleted()
	assert.True(t, s.Completed())
}

func TestPickRecipe(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		r := PickRecipe(rng)
		seen[r.Key] = true
		assert.NotEmpty(t, r.Steps)
		assert.Positive(t, r.Reward)
		assert.Positive(t, r.TimeLimit)
	}
	// Uniform draw over the catalog reaches every recipe in 200 draws
	assert.Len(t, seen, len(Catalog()))
}

func TestShuffledPalette(t *testing.T) {
	r := testRecipe()
	palette := ShuffledPalette(r, rand.New(rand.NewSource(1)))

	assert.ElementsMatch(t, r.Steps, palette)
	// The recipe itself is untouched
	assert.Equal(t, []string{"🍚", "🐟", "🥢"}, r.Steps)
}

func TestCatalogRecipesAreWellFormed(t *testing.T) {
	for _, r := range Catalog() {
		assert.NotEmpty(t, r.Key)
		assert.NotEmpty(t, r.Steps, "recipe %s", r.Key)
		assert.Positive(t, r.Reward, "recipe %s", r.Key)
		assert.Positive(t, r.TimeLimit, "recipe %s", r.Key)

		// Reaction tokens must be unique: a platform reaction can only be
		// added once per user per message.
		seen := map[string]bool{}
		for _, step := range r.Steps {
			assert.False(t, seen[step], "recipe %s repeats token %s", r.Key, step)
			seen[step] = true
		}
	}
}
