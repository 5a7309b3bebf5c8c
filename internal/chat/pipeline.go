package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/internal/classifier"
	"github.com/JaimeStill/empath/internal/dispatch"
	"github.com/JaimeStill/empath/internal/emotions"
	"github.com/JaimeStill/empath/internal/failures"
	"github.com/JaimeStill/empath/internal/responses"
)

// Dispatcher applies the confidence gate and schedules side effects.
type Dispatcher interface {
	Dispatch(ctx context.Context, id auth.Identity, text string, result *emotions.Result) dispatch.Decision
}

// Outcome is the pipeline's verdict for validated text.
type Outcome struct {
	Result   *emotions.Result
	Decision dispatch.Decision
	Err      error
	Reply    string
}

// Kind returns the failure kind of the outcome, or failures.None.
func (o Outcome) Kind() failures.Kind {
	return failures.KindOf(o.Err)
}

// Pipeline wires the classifier, dispatcher, and reply selector.
type Pipeline struct {
	classifier classifier.Classifier
	dispatcher Dispatcher
	selector   *responses.Selector
	logger     *slog.Logger
}

// NewPipeline creates a Pipeline from its stages.
func NewPipeline(
	c classifier.Classifier,
	d Dispatcher,
	s *responses.Selector,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		classifier: c,
		dispatcher: d,
		selector:   s,
		logger:     logger.With("system", "pipeline"),
	}
}

// Run classifies validated text and returns the outcome. A classification or
// normalization failure yields a Degraded outcome with an apology reply; it
// is never returned as an error.
func (p *Pipeline) Run(ctx context.Context, id auth.Identity, text string) Outcome {
	start := time.Now()

	raw, err := p.classifier.Classify(ctx, classifier.NewRequest(text), id.Token)
	if err != nil {
		return p.degraded(ctx, err, start)
	}

	result, coerced, err := emotions.Normalize(raw)
	if err != nil {
		return p.degraded(ctx, err, start)
	}
	if len(coerced) > 0 {
		p.logger.InfoContext(ctx, "unknown labels coerced to neutral", "labels", coerced)
	}
	if top, ok := result.Top(); ok && top.Label != string(result.Emotion) {
		p.logger.DebugContext(ctx, "reported emotion is not the top score",
			"emotion", result.Emotion,
			"top", top.Label,
			"top_score", top.Score,
		)
	}

	decision := p.dispatcher.Dispatch(ctx, id, text, result)

	p.logger.InfoContext(ctx, "message classified",
		"emotion", result.Emotion,
		"confidence", result.Confidence,
		"decision", decision,
		"elapsed", time.Since(start),
	)

	return Outcome{
		Result:   result,
		Decision: decision,
		Reply:    p.selector.Select(result.Emotion),
	}
}

func (p *Pipeline) degraded(ctx context.Context, err error, start time.Time) Outcome {
	kind := failures.KindOf(err)
	p.logger.WarnContext(ctx, "message degraded",
		"kind", kind,
		"stage", kind.Stage(),
		"elapsed", time.Since(start),
		"error", err,
	)
	return Outcome{
		Decision: dispatch.Decide(nil, err),
		Err:      err,
		Reply:    p.selector.Apology(kind),
	}
}

// Reject builds the reply for text the validator refused.
func (p *Pipeline) Reject(err error) Outcome {
	return Outcome{
		Decision: dispatch.Rejected,
		Err:      err,
		Reply:    p.selector.Apology(failures.KindOf(err)),
	}
}
