package progress

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	profile  *UserProfile
	sessions map[int]SessionState
	attempts []Attempt

	loadErr  error
	saveErr  error
	resetErr error
	saves    int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{sessions: make(map[int]SessionState)}
}

func (b *fakeBackend) LoadProfile(context.Context) (UserProfile, error) {
	if b.loadErr != nil {
		return UserProfile{}, b.loadErr
	}
	if b.profile == nil {
		return UserProfile{}, ErrNotFound
	}
	return b.profile.Clone(), nil
}

func (b *fakeBackend) SaveProfile(_ context.Context, p UserProfile) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	c := p.Clone()
	b.profile = &c
	b.saves++
	return nil
}

func (b *fakeBackend) LoadSession(_ context.Context, levelID int) (SessionState, error) {
	st, ok := b.sessions[levelID]
	if !ok {
		return SessionState{}, ErrNotFound
	}
	return st, nil
}

func (b *fakeBackend) SaveSession(_ context.Context, st SessionState) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.sessions[st.LevelID] = st
	return nil
}

func (b *fakeBackend) Reset(context.Context) error {
	if b.resetErr != nil {
		return b.resetErr
	}
	b.profile = nil
	b.sessions = make(map[int]SessionState)
	b.attempts = nil
	return nil
}

var testNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newTestStore(b Backend) *Store {
	return NewStore(b, Options{
		Username: "tester",
		Logger:   log.New(io.Discard),
		Now:      func() time.Time { return testNow },
	})
}

func TestLoadInitialisesDefaultProfile(t *testing.T) {
	b := newFakeBackend()
	s := newTestStore(b)

	p := s.Load(context.Background())
	assert.Equal(t, "tester", p.Username)
	assert.Equal(t, 1, p.Level)
	assert.Zero(t, p.Experience)
	assert.Empty(t, p.CompletedLevels)
	assert.Equal(t, DefaultPreferences(), p.Preferences)
	assert.NotEmpty(t, p.ID)
	require.NotNil(t, b.profile, "default profile should be persisted")
	assert.Equal(t, p.ID, b.profile.ID)
}

func TestLoadFallsBackOnCorruptData(t *testing.T) {
	b := newFakeBackend()
	b.loadErr = errors.New("database disk image is malformed")
	s := newTestStore(b)

	p := s.Load(context.Background())
	assert.Equal(t, 1, p.Level)
	assert.Empty(t, p.CompletedLevels)
	assert.Zero(t, b.saves, "unreadable data must not be overwritten by load")
}

func TestSaveFailureIsSwallowed(t *testing.T) {
	b := newFakeBackend()
	b.saveErr = errors.New("read-only file system")
	s := newTestStore(b)

	assert.NotPanics(t, func() {
		s.Save(context.Background(), NewProfile("x", testNow))
		res := s.CompleteLevel(context.Background(), 1, 100, time.Minute, 0, 100)
		assert.Equal(t, 100, res.Score)
	})
}

func TestCompleteLevelNeverDowngradesScore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	first := s.CompleteLevel(ctx, 1, 80, 30*time.Second, 0, 100)
	assert.True(t, first.FirstCompletion)
	second := s.CompleteLevel(ctx, 1, 60, 30*time.Second, 0, 100)
	assert.False(t, second.FirstCompletion)

	c, ok := second.Profile.Completion(1)
	require.True(t, ok)
	assert.Equal(t, 80, c.Score)
	assert.Equal(t, 2, c.Attempts)
	assert.Len(t, second.Profile.CompletedLevels, 1)

	st := second.Profile.Statistics
	assert.Equal(t, 2, st.ProblemsSolved)
	assert.Equal(t, 140, st.TotalScore)
	assert.Equal(t, 80, st.BestScore)
	assert.InDelta(t, 70.0, st.AverageScore, 1e-9)
	assert.Equal(t, 1, st.LevelsCompleted)
	assert.Equal(t, 60, st.TotalPlayTime)

	wantXP := XPForCompletion(80, 30*time.Second, 0) + XPForCompletion(60, 30*time.Second, 0)
	assert.Equal(t, wantXP, second.Profile.Experience)
}

func TestLevelTracksExperience(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	for i := 0; i < 12; i++ {
		res := s.CompleteLevel(ctx, 1+i%3, 100, 0, 0, 0)
		p := res.Profile
		assert.Equal(t, p.Experience/1000+1, p.Level, "after completion %d", i)
	}
	p := s.Load(ctx)
	assert.Equal(t, 12*XPForCompletion(100, 0, 0), p.Experience)
	assert.Equal(t, p.Experience/1000+1, p.Level)
}

func TestNegativeAwardClampsTotal(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	res := s.CompleteLevel(ctx, 1, 0, time.Hour, 40, 100)
	assert.Negative(t, res.XPAwarded)
	assert.Zero(t, res.Profile.Experience)
	assert.Equal(t, 1, res.Profile.Level)
}

func TestResetProgress(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	s := newTestStore(b)

	s.CompleteLevel(ctx, 1, 100, 0, 0, 100)
	s.CompleteLevel(ctx, 2, 100, 0, 0, 150)
	s.SaveSessionState(ctx, SessionState{LevelID: 2, CurrentScore: 42})

	s.ResetProgress(ctx)
	p := s.Load(ctx)
	assert.Empty(t, p.CompletedLevels)
	assert.Empty(t, p.Achievements)
	assert.Zero(t, p.Experience)
	assert.Equal(t, 1, p.Level)
	assert.Zero(t, s.GetSessionState(ctx, 2).CurrentScore)
}

func TestUnlockDependsOnlyOnCompletion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	assert.True(t, s.IsUnlocked(ctx, 1))
	assert.False(t, s.IsUnlocked(ctx, 2))

	s.CompleteLevel(ctx, 1, 0, time.Hour, 0, 100)
	assert.True(t, s.IsUnlocked(ctx, 2), "a zero score still unlocks the next level")
	assert.False(t, s.IsUnlocked(ctx, 3))

	s.ResetProgress(ctx)
	assert.False(t, s.IsUnlocked(ctx, 2), "reset is reflected immediately")
}

func TestScoreIsClamped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	res := s.CompleteLevel(ctx, 1, 500, 0, 0, 100)
	assert.Equal(t, 100, res.Score)
	c, _ := res.Profile.Completion(1)
	assert.Equal(t, 100, c.Score)

	res = s.CompleteLevel(ctx, 2, -20, 0, 0, 150)
	assert.Zero(t, res.Score)
}

func TestMaxScoreFallsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	res := s.CompleteLevel(ctx, 3, 240, 0, 0, 0)
	assert.Equal(t, 240, res.Score, "catalog max for level 3 is 250")

	res = s.CompleteLevel(ctx, 99, 180, 0, 0, 0)
	assert.Equal(t, 100, res.Score, "unknown levels use the fallback max")
	assert.True(t, res.Profile.HasCompleted(99))
}

func TestAchievementsOnCompletion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	res := s.CompleteLevel(ctx, 1, 100, 0, 0, 100)
	ids := achievementIDs(res.NewAchievements)
	assert.Equal(t, []string{"first_level", "recursion_wizard"}, ids)

	res = s.CompleteLevel(ctx, 1, 100, 0, 0, 100)
	assert.Empty(t, res.NewAchievements, "achievements unlock once")

	res = s.CompleteLevel(ctx, 3, 67, 0, 0, 250)
	assert.Equal(t, []string{"sorting_sorcerer"}, achievementIDs(res.NewAchievements))
	res = s.CompleteLevel(ctx, 3, 100, 0, 0, 250)
	assert.Equal(t, []string{"flawless_sort"}, achievementIDs(res.NewAchievements))

	assert.Len(t, res.Profile.Achievements, 4)
	assert.Equal(t, testNow, res.Profile.Achievements[0].UnlockedAt)
}

func TestFlawlessSortRequiresNoMistakes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	res := s.Complete(ctx, Play{LevelID: 3, Score: 100, MaxScore: 250, Mistakes: 3})
	ids := achievementIDs(res.NewAchievements)
	assert.Contains(t, ids, "sorting_sorcerer")
	assert.NotContains(t, ids, "flawless_sort", "a run with failed verifications is not flawless")
	assert.False(t, s.Load(ctx).HasAchievement("flawless_sort"))

	res = s.Complete(ctx, Play{LevelID: 3, Score: 250, MaxScore: 250})
	assert.Equal(t, []string{"flawless_sort"}, achievementIDs(res.NewAchievements))

	other := newTestStore(newFakeBackend())
	res = other.Complete(ctx, Play{LevelID: 3, Score: 400, MaxScore: 250, Mistakes: -1})
	assert.Contains(t, achievementIDs(res.NewAchievements), "flawless_sort", "negative mistakes count as none")
}

func TestLoadedProfileQueries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())
	s.CompleteLevel(ctx, 1, 80, time.Minute, 0, 100)

	assert.True(t, s.Load(ctx).HasCompleted(1))
	assert.False(t, s.Load(ctx).HasCompleted(2))
	assert.True(t, s.Load(ctx).HasAchievement("recursion_wizard"))
	c, ok := s.Load(ctx).Completion(1)
	require.True(t, ok)
	assert.Equal(t, 80, c.Score)
}

func TestUnlockAchievementOnce(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	a := Achievement{ID: "night_owl", Name: "Night Owl"}
	assert.True(t, s.UnlockAchievement(ctx, a))
	assert.False(t, s.UnlockAchievement(ctx, a))

	p := s.Load(ctx)
	require.Len(t, p.Achievements, 1)
	assert.Equal(t, testNow, p.Achievements[0].UnlockedAt)
}

func TestAlgorithmsLearnedAndStreak(t *testing.T) {
	ctx := context.Background()
	now := testNow
	s := NewStore(newFakeBackend(), Options{
		Logger: log.New(io.Discard),
		Now:    func() time.Time { return now },
	})

	s.CompleteLevel(ctx, 1, 100, 0, 0, 100)
	s.CompleteLevel(ctx, 1, 100, 0, 0, 100)
	p := s.Load(ctx)
	assert.Equal(t, 1, p.Statistics.AlgorithmsLearned)
	assert.Equal(t, 1, p.Statistics.StreakDays)

	now = now.AddDate(0, 0, 1)
	res := s.CompleteLevel(ctx, 2, 100, 0, 0, 150)
	assert.Equal(t, 2, res.Profile.Statistics.AlgorithmsLearned)
	assert.Equal(t, 2, res.Profile.Statistics.StreakDays)

	now = now.AddDate(0, 0, 3)
	res = s.CompleteLevel(ctx, 3, 100, 0, 0, 250)
	assert.Equal(t, 3, res.Profile.Statistics.AlgorithmsLearned)
	assert.Equal(t, 1, res.Profile.Statistics.StreakDays)
	assert.Equal(t, DefaultUsername, res.Profile.Username)
}

func TestSessionState(t *testing.T) {
	ctx := context.Background()
	b := newFakeBackend()
	s := newTestStore(b)

	st := s.GetSessionState(ctx, 2)
	assert.Equal(t, SessionState{LevelID: 2}, st)
	assert.Contains(t, b.sessions, 2, "first read creates the cache")

	s.SaveSessionState(ctx, SessionState{LevelID: 2, CurrentScore: 150})
	assert.Equal(t, 150, s.GetSessionState(ctx, 2).CurrentScore)

	s.ResetSessionState(ctx, 2)
	assert.Zero(t, s.GetSessionState(ctx, 2).CurrentScore)

	p := s.Load(ctx)
	assert.Empty(t, p.CompletedLevels, "session cache is independent of completions")
}

func TestUpdatePlayTime(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	s.UpdatePlayTime(ctx, 90*time.Second)
	s.UpdatePlayTime(ctx, -time.Second)
	p := s.Load(ctx)
	assert.Equal(t, 90, p.Statistics.TotalPlayTime)
	assert.Zero(t, p.Statistics.ProblemsSolved)
}

func TestUpdatePreferences(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	light := ThemeLight
	off := false
	p, err := s.UpdatePreferences(ctx, PreferencesPatch{Theme: &light, SoundEnabled: &off})
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, p.Preferences.Theme)
	assert.False(t, p.Preferences.SoundEnabled)
	assert.True(t, p.Preferences.TutorialEnabled, "unset fields are kept")
	assert.Equal(t, DifficultyMedium, p.Preferences.Difficulty)

	bad := Theme("neon")
	_, err = s.UpdatePreferences(ctx, PreferencesPatch{Theme: &bad})
	assert.Error(t, err)
	assert.Equal(t, ThemeLight, s.Load(ctx).Preferences.Theme)
}

func TestSummary(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())

	empty := s.Summary(ctx)
	assert.Equal(t, 1, empty.Level)
	assert.Equal(t, 1000, empty.ExperienceToNext)
	assert.Zero(t, empty.Efficiency)

	s.CompleteLevel(ctx, 1, 100, 0, 1, 100)
	s.CompleteLevel(ctx, 2, 50, 0, 0, 150)
	sum := s.Summary(ctx)

	xp := XPForCompletion(100, 0, 1) + XPForCompletion(50, 0, 0)
	assert.Equal(t, xp, sum.Experience)
	assert.Equal(t, 1000-xp, sum.ExperienceToNext)
	assert.Equal(t, 2, sum.ProblemsSolved)
	assert.Equal(t, 1, sum.HintsUsed)
	assert.InDelta(t, 75.0, sum.AverageScore, 1e-9)
	assert.InDelta(t, 37.5, sum.Efficiency, 1e-9)
	assert.Equal(t, 2, sum.CompletedLevels)
	assert.Equal(t, 3, sum.AchievementCount)
}

func TestRecentAchievementsLimited(t *testing.T) {
	p := NewProfile("", testNow)
	for i := 0; i < 8; i++ {
		p.Achievements = append(p.Achievements, Achievement{ID: string(rune('a' + i))})
	}
	sum := Summarize(p)
	require.Len(t, sum.RecentAchievements, 5)
	assert.Equal(t, "d", sum.RecentAchievements[0].ID)
	assert.Equal(t, 8, sum.AchievementCount)
}

func TestLevelStatus(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())
	s.CompleteLevel(ctx, 1, 80, 0, 0, 100)
	s.CompleteLevel(ctx, 1, 90, 0, 0, 100)

	assert.Equal(t, LevelStatus{LevelID: 1, IsCompleted: true, Score: 90, Attempts: 2, IsUnlocked: true}, s.LevelStatus(ctx, 1))
	assert.Equal(t, LevelStatus{LevelID: 2, IsUnlocked: true}, s.LevelStatus(ctx, 2))
	assert.Equal(t, LevelStatus{LevelID: 3}, s.LevelStatus(ctx, 3))

	all := s.LevelStatuses(ctx)
	require.Len(t, all, 3)
	assert.True(t, all[0].IsCompleted)
	assert.False(t, all[2].IsUnlocked)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(newFakeBackend())
	src.CompleteLevel(ctx, 1, 100, time.Minute, 0, 100)

	var buf bytes.Buffer
	require.NoError(t, src.Export(ctx, &buf))
	assert.Contains(t, buf.String(), `"completedLevels"`)
	assert.Contains(t, buf.String(), "\n  ")

	dst := newTestStore(newFakeBackend())
	require.True(t, dst.Import(ctx, &buf))
	assert.Equal(t, src.Load(ctx), dst.Load(ctx))
}

func TestImportRejectsBadData(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newFakeBackend())
	before := s.Load(ctx)

	inputs := []string{
		"{not json",
		`{"id":"x","username":"u","experience":-5}`,
		`{"id":"","username":"u"}`,
		`{"id":"x","username":"u","completedLevels":[{"levelId":1,"score":10,"attempts":0}]}`,
	}
	for _, in := range inputs {
		assert.False(t, s.Import(ctx, strings.NewReader(in)), in)
	}
	assert.Equal(t, before, s.Load(ctx))
}

func TestLoadNormalizesStoredProfile(t *testing.T) {
	b := newFakeBackend()
	p := NewProfile("u", testNow)
	p.Experience = 2500
	p.Level = 1
	p.CompletedLevels = []CompletionRecord{
		{LevelID: 1, Score: 40, Attempts: 1},
		{LevelID: 1, Score: 70, Attempts: 2},
		{LevelID: 42, Score: 10, Attempts: 1},
	}
	b.profile = &p

	got := newTestStore(b).Load(context.Background())
	assert.Equal(t, 3, got.Level)
	require.Len(t, got.CompletedLevels, 2)
	assert.Equal(t, 70, got.CompletedLevels[0].Score)
	assert.Equal(t, 3, got.CompletedLevels[0].Attempts)
	assert.Equal(t, 2, got.Statistics.LevelsCompleted)
}

func achievementIDs(as []Achievement) []string {
	ids := make([]string, 0, len(as))
	for _, a := range as {
		ids = append(ids, a.ID)
	}
	return ids
}
