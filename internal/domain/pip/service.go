package pip

import (
	"time"

	cryptoutil "talent/internal/platform/crypto"
)

const defaultConcurrency = 4

type Recorder interface {
	RecordAssessment(critical, warning, info int)
}

type Options struct {
	Alerts      AlertOptions
	DateLayout  string
	LetterDir   string
	Concurrency int
	Recorder    Recorder
	Now         func() time.Time
}

type Service struct {
	store  StoreAPI
	crypto *cryptoutil.Service
	opts   Options
}

func NewService(store StoreAPI, crypto *cryptoutil.Service, opts Options) *Service {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}
	if opts.LetterDir == "" {
		opts.LetterDir = "storage/pip-letters"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{store: store, crypto: crypto, opts: opts}
}

func (s *Service) Now() time.Time {
	return s.opts.Now()
}
