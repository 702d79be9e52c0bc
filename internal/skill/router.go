package skill

import (
	"context"
	"errors"
	"fmt"

	"github.com/randytsao24/nextshuttle/internal/logger"
	"github.com/randytsao24/nextshuttle/internal/metrics"
	"github.com/randytsao24/nextshuttle/internal/transit"
)

// ErrUnknownRequestType is returned for request types the skill does not handle.
var ErrUnknownRequestType = errors.New("unknown request type")

// Intent names.
const (
	IntentMIT     = "MitShuttle"
	IntentOneBus  = "OneBus"
	IntentHarvard = "HarvardShuttle"
	IntentClosest = "Closest"
	IntentBoston  = "Boston"
	IntentHelp    = "AMAZON.HelpIntent"
	IntentCancel  = "AMAZON.CancelIntent"
	IntentStop    = "AMAZON.StopIntent"
)

const (
	WelcomeSpeech    = "What shuttle would you like to know the prediction for?"
	WelcomeReprompt  = "I didn't catch that, can you repeat the shuttle again?"
	PredictReprompt  = "You look greater now"
	SessionEndSpeech = "Thank you for trying the Alexa Skills Kit sample. Have a nice day! "
)

// Predictor answers prediction questions.
type Predictor interface {
	Describe(ctx context.Context, kind transit.ProviderKind) (string, error)
	Closest(ctx context.Context, direction string) (transit.Ranking, error)
}

// HandlerFunc produces the envelope for one intent.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

// Router dispatches requests by type and intent name.
type Router struct {
	intents  map[string]HandlerFunc
	fallback HandlerFunc
	log      logger.Logger
	recorder metrics.Recorder
}

// NewRouter registers the built-in intents against p. Intents without a
// handler get the closest arrivals towards MIT.
func NewRouter(p Predictor, log logger.Logger, rec metrics.Recorder) *Router {
	if log == nil {
		log = logger.Nop{}
	}
	if rec == nil {
		rec = metrics.Nop{}
	}
	closest := closestHandler(p, transit.BeaconStreet.Name)
	return &Router{
		intents: map[string]HandlerFunc{
			IntentMIT:     describeHandler(p, transit.MIT),
			IntentOneBus:  describeHandler(p, transit.OneBus),
			IntentHarvard: describeHandler(p, transit.Harvard),
			IntentClosest: closest,
			IntentBoston:  closestHandler(p, transit.Boston.Name),
			IntentHelp:    welcome,
			IntentCancel:  endSession,
			IntentStop:    endSession,
		},
		fallback: closest,
		log:      log,
		recorder: rec,
	}
}

// Handle routes a request to its handler.
func (r *Router) Handle(ctx context.Context, req Request) (Response, error) {
	body := req.Request
	r.recorder.SkillRequest(body.Type, body.Intent.Name)

	if req.Session.New {
		r.log.Infow("session started", map[string]any{
			"request_id": body.RequestID,
			"session_id": req.Session.SessionID,
		})
	}

	switch body.Type {
	case LaunchRequest:
		return welcome(ctx, req)
	case IntentRequest:
		h, ok := r.intents[body.Intent.Name]
		if !ok {
			r.log.Infof("unrecognized intent %q, answering closest", body.Intent.Name)
			h = r.fallback
		}
		return h(ctx, req)
	case SessionEndedRequest:
		r.log.Infow("session ended", map[string]any{
			"request_id": body.RequestID,
			"session_id": req.Session.SessionID,
			"reason":     body.Reason,
		})
		return Silent(), nil
	default:
		return Response{}, fmt.Errorf("%w: %q", ErrUnknownRequestType, body.Type)
	}
}

func describeHandler(p Predictor, kind transit.ProviderKind) HandlerFunc {
	return func(ctx context.Context, _ Request) (Response, error) {
		text, err := p.Describe(ctx, kind)
		if err != nil {
			return Response{}, err
		}
		return Speak(text, PredictReprompt, true), nil
	}
}

func closestHandler(p Predictor, direction string) HandlerFunc {
	return func(ctx context.Context, _ Request) (Response, error) {
		ranking, err := p.Closest(ctx, direction)
		if err != nil {
			return Response{}, err
		}
		return Speak(ranking.Sentence(), PredictReprompt, true), nil
	}
}

func welcome(context.Context, Request) (Response, error) {
	return Speak(WelcomeSpeech, WelcomeReprompt, false), nil
}

func endSession(context.Context, Request) (Response, error) {
	return Speak(SessionEndSpeech, "", true), nil
}
