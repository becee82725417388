package usecase

import (
	"context"
	"time"

	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/roster"
	"github.com/JamesHankinsDev/26-survivor-fantasy-league/internal/domain/season"
)

// SeasonService answers "what week is it" questions from the week clock.
type SeasonService struct {
	season season.Season
	clock  season.Clock
	rules  roster.Rules
	now    func() time.Time
}

func NewSeasonService(item season.Season, clock season.Clock, rules roster.Rules) *SeasonService {
	return &SeasonService{
		season: item,
		clock:  clock,
		rules:  rules,
		now:    time.Now,
	}
}

// SeasonInfo is the public season state: identity, the derived current week
// and the next roster lock, plus the roster policy parameters clients render.
type SeasonInfo struct {
	Season       int
	Name         string
	PremiereDate time.Time
	CurrentWeek  int
	NextLockTime time.Time
	RosterSize   int
	NetChangeCap int
}

func (s *SeasonService) Info(ctx context.Context) SeasonInfo {
	_, span := startUsecaseSpan(ctx, "usecase.SeasonService.Info")
	defer span.End()

	now := s.now()
	return SeasonInfo{
		Season:       s.season.Number,
		Name:         s.season.Name,
		PremiereDate: s.season.PremiereDate,
		CurrentWeek:  s.clock.CurrentWeek(now),
		NextLockTime: s.clock.NextLockTime(now),
		RosterSize:   s.rules.Size,
		NetChangeCap: s.rules.NetChangeCap,
	}
}

// CurrentWeek exposes the derived week for other layers.
func (s *SeasonService) CurrentWeek() int {
	return s.clock.CurrentWeek(s.now())
}
