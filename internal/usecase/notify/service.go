package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"question-notifier/internal/domain"
	"question-notifier/internal/infra/metrics"
	"question-notifier/internal/questions"
)

var (
	// ErrTickInProgress возвращается, если предыдущий тик этого процесса ещё выполняется.
	ErrTickInProgress = errors.New("tick already in progress")
	// ErrTickLocked возвращается, если тик выполняет другая реплика.
	ErrTickLocked = errors.New("tick locked by another instance")
)

const tickLockKey = "question-notifier:tick"

// Options задаёт поведение планировщика.
type Options struct {
	Collection       string
	Policy           domain.RerollPolicy
	HourMin          int
	HourMax          int
	Window           domain.NotificationWindow
	EnforceWindow    bool
	WriteConcurrency int
	Location         *time.Location
	LockTTL          time.Duration
}

// DefaultOptions возвращает настройки исходного поведения.
func DefaultOptions() Options {
	return Options{
		Collection:       domain.DefaultUsersCollection,
		Policy:           domain.RerollEveryTick,
		HourMin:          10,
		HourMax:          16,
		Window:           domain.DefaultNotificationWindow,
		WriteConcurrency: 1,
		Location:         time.Local,
		LockTTL:          9 * time.Minute,
	}
}

// TickResult описывает итог одного тика.
type TickResult struct {
	TickID        string
	QuestionIndex int
	Question      string
	Rerolled      bool
	Listed        int
	Skipped       int
	Unreadable    int
	Updated       int
	Due           int
}

// Option настраивает Service.
type Option func(*Service)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRand подменяет генератор случайных чисел.
func WithRand(rng Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// WithPublisher включает публикацию событий NotificationDue.
func WithPublisher(p domain.NotificationPublisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithTickLock включает распределённую блокировку тика.
func WithTickLock(l domain.TickLock) Option {
	return func(s *Service) { s.lock = l }
}

// WithStateStore включает сохранение вопроса дня между перезапусками.
func WithStateStore(st domain.QuestionStateStore) Option {
	return func(s *Service) { s.state = st }
}

// WithIDGenerator подменяет генератор идентификаторов тиков и событий.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

// Service планирует уведомления с вопросом дня.
type Service struct {
	store     domain.UserStore
	bank      *questions.Bank
	log       zerolog.Logger
	opts      Options
	now       func() time.Time
	rng       Rand
	publisher domain.NotificationPublisher
	lock      domain.TickLock
	state     domain.QuestionStateStore
	newID     func() string

	running atomic.Bool

	mu          sync.Mutex
	index       int
	rolledDay   string
	stateLoaded bool
}

// NewService создаёт планировщик. Индекс вопроса изначально не выбран.
func NewService(store domain.UserStore, bank *questions.Bank, logger zerolog.Logger, opts Options, options ...Option) *Service {
	if opts.Collection == "" {
		opts.Collection = domain.DefaultUsersCollection
	}
	if opts.Policy == "" {
		opts.Policy = domain.RerollEveryTick
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.WriteConcurrency < 1 {
		opts.WriteConcurrency = 1
	}
	s := &Service{
		store: store,
		bank:  bank,
		log:   logger,
		opts:  opts,
		now:   time.Now,
		rng:   globalRand{},
		newID: uuid.NewString,
		index: -1,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// CurrentQuestion возвращает текущий общий вопрос; ok=false, пока он не выбран.
func (s *Service) CurrentQuestion() (index int, question string, ok bool) {
	s.mu.Lock()
	index = s.index
	s.mu.Unlock()
	if index < 0 {
		return index, "", false
	}
	question, err := s.bank.At(index)
	if err != nil {
		return index, "", false
	}
	return index, question, true
}

// RunTick выполняет тик и логирует ошибку, не пробрасывая её. Используется таймером.
func (s *Service) RunTick(ctx context.Context) {
	start := time.Now()
	res, err := s.Tick(ctx)
	switch {
	case errors.Is(err, ErrTickInProgress), errors.Is(err, ErrTickLocked):
		metrics.ObserveTick(start, "skipped")
		s.log.Warn().Err(err).Msg("notify: тик пропущен")
	case err != nil:
		metrics.ObserveTick(start, "error")
		s.log.Error().Err(err).
			Str("tick", res.TickID).
			Int("updated", res.Updated).
			Msg("notify: ошибка обновления времени уведомлений")
	default:
		metrics.ObserveTick(start, "ok")
	}
}

// Tick читает всех пользователей, выбирает вопрос и записывает каждому
// час уведомления, флаг isNotificationTime и текст вопроса.
// Уже выполненные записи при ошибке не откатываются.
func (s *Service) Tick(ctx context.Context) (TickResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return TickResult{}, ErrTickInProgress
	}
	defer s.running.Store(false)

	result := TickResult{TickID: s.newID(), QuestionIndex: -1}
	log := s.log.With().Str("tick", result.TickID).Logger()

	if s.lock != nil {
		acquired, err := s.lock.TryLock(ctx, tickLockKey, s.opts.LockTTL)
		if err != nil {
			return result, fmt.Errorf("захват блокировки тика: %w", err)
		}
		if !acquired {
			return result, ErrTickLocked
		}
		defer func() {
			if err := s.lock.Unlock(context.WithoutCancel(ctx), tickLockKey); err != nil {
				log.Warn().Err(err).Msg("notify: не удалось снять блокировку тика")
			}
		}()
	}

	users, err := s.store.ListAll(ctx, s.opts.Collection)
	if err != nil {
		return result, fmt.Errorf("%w: %w", domain.ErrFetchUsers, err)
	}
	result.Listed = len(users)

	now := s.now().In(s.opts.Location)
	result.QuestionIndex, result.Rerolled = s.resolveIndex(ctx, log, now)
	question, err := s.bank.At(result.QuestionIndex)
	if err != nil {
		return result, err
	}
	result.Question = question

	currentHour := now.Hour()
	batch := make([]stagedUpdate, 0, len(users))
	for _, u := range users {
		if u.Unreadable {
			result.Unreadable++
			log.Warn().Str("user", u.ID).Strs("issues", u.DecodeIssues).Msg("notify: документ пользователя не читается, пропущен")
			continue
		}
		if len(u.DecodeIssues) > 0 {
			log.Warn().Str("user", u.ID).Strs("issues", u.DecodeIssues).Msg("notify: некорректные поля документа обнулены")
		}
		if u.IsSubmitted {
			result.Skipped++
			continue
		}
		hour := s.notificationHour(u)
		due := s.isNotificationTime(currentHour, hour)
		batch = append(batch, newStagedUpdate(u.ID, hour, due, now, question))
		log.Info().Str("user", u.ID).Int("hour", hour).Bool("due", due).Msg("notify: час уведомления пользователя")
	}
	metrics.UsersSkippedTotal.Add(float64(result.Skipped))

	if err := s.apply(ctx, log, result.TickID, batch, &result); err != nil {
		return result, err
	}

	log.Info().
		Int("index", result.QuestionIndex).
		Str("question", question).
		Bool("rerolled", result.Rerolled).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("unreadable", result.Unreadable).
		Int("due", result.Due).
		Msg("notify: вопрос для всех пользователей")
	return result, nil
}

// AssignQuestion записывает пользователю только поле randomQuestion.
func (s *Service) AssignQuestion(ctx context.Context, userID string, index int) (string, error) {
	question, err := s.bank.At(index)
	if err != nil {
		return "", err
	}
	patch := domain.UserPatch{RandomQuestion: &question}
	if err := s.store.UpdateFields(ctx, s.opts.Collection, userID, patch); err != nil {
		return "", fmt.Errorf("%w: user %s: %w", domain.ErrUpdateUser, userID, err)
	}
	s.log.Info().Str("user", userID).Str("question", question).Msg("notify: вопрос назначен пользователю")
	return question, nil
}

// AssignQuestionToUser вызывает AssignQuestion и только логирует ошибку.
func (s *Service) AssignQuestionToUser(ctx context.Context, userID string, index int) {
	if _, err := s.AssignQuestion(ctx, userID, index); err != nil {
		s.log.Error().Err(err).Str("user", userID).Int("index", index).Msg("notify: не удалось назначить вопрос")
	}
}

func (s *Service) resolveIndex(ctx context.Context, log zerolog.Logger, now time.Time) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := domain.DayKey(now)
	persist := s.state != nil && s.opts.Policy == domain.RerollDaily
	if persist && s.index < 0 && !s.stateLoaded {
		s.stateLoaded = true
		idx, ok, err := s.state.LoadDayIndex(ctx, today)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("notify: не удалось прочитать вопрос дня")
		case ok && idx >= 0 && idx < s.bank.Len():
			s.index = idx
			s.rolledDay = today
		}
	}

	if !s.opts.Policy.ShouldReroll(s.index, s.rolledDay, today, domain.IsWorkingDay(now)) {
		return s.index, false
	}

	s.index = RandomIntInclusive(s.rng, 0, s.bank.Len()-1)
	s.rolledDay = today
	metrics.QuestionRerollsTotal.Inc()
	if persist {
		if err := s.state.SaveDayIndex(ctx, today, s.index); err != nil {
			log.Warn().Err(err).Msg("notify: не удалось сохранить вопрос дня")
		}
	}
	return s.index, true
}

func (s *Service) notificationHour(u domain.User) int {
	if u.RandomNotificationHour != nil {
		return *u.RandomNotificationHour
	}
	return RandomIntInclusive(s.rng, s.opts.HourMin, s.opts.HourMax)
}

func (s *Service) isNotificationTime(currentHour, userHour int) bool {
	if s.opts.EnforceWindow {
		return domain.InNotificationWindow(currentHour, userHour, s.opts.Window)
	}
	return domain.IsNotificationTime(currentHour, userHour)
}
