package manager

import "github.com/rs/zerolog"

// LogPublisher writes events to a zerolog logger. Failures log at warn,
// everything else at info.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(l zerolog.Logger) *LogPublisher { return &LogPublisher{log: l} }

func (p *LogPublisher) Publish(e Event) {
	ev := p.log.Info()
	if e.Name == EventPredictionFailed {
		ev = p.log.Warn()
	}
	ev = ev.Str("event", e.Name)
	if e.Model != "" {
		ev = ev.Str("model", e.Model)
	}
	if len(e.Fields) > 0 {
		ev = ev.Fields(e.Fields)
	}
	ev.Msg("manager event")
}
