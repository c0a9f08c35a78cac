// Package terminal renders questionnaire steps as interactive terminal
// prompts and feeds the answers back into a wizard controller.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bemestar/internal/model"
	"bemestar/internal/platform/logger"
	"bemestar/internal/wizard"
)

const (
	backLabel    = "← Voltar"
	skipLabel    = "Pular"
	nextLabel    = "Continuar"
	submitLabel  = "Enviar respostas"
	backCommand  = ":voltar"
	defaultPage  = 10
	missingValue = "-"
)

// Presenter runs one controller to completion on a PromptDriver.
type Presenter struct {
	driver PromptDriver
	log    *logger.Logger
}

func New(driver PromptDriver, log *logger.Logger) *Presenter {
	if log == nil {
		log = logger.Nop()
	}
	return &Presenter{driver: driver, log: log}
}

// Run prompts until the session terminates. It returns the delivered payload
// when the respondent submitted, or nil after a consent decline.
func (p *Presenter) Run(ctx context.Context, ctrl *wizard.Controller) (*model.Payload, error) {
	var delivered *model.Payload
	for {
		v := ctrl.Current()
		if v.Status == model.SessionTerminated {
			if err := p.driver.Info(ctx, v.Message); err != nil {
				return delivered, err
			}
			return delivered, nil
		}

		ev, err := p.ask(ctx, v)
		if err != nil {
			return nil, err
		}

		if ev.Type == model.EventSubmit {
			delivered, err = ctrl.Submit(ctx)
		} else {
			err = ctrl.Handle(ctx, ev)
		}
		if err == nil {
			continue
		}

		var perr *wizard.PersistenceError
		switch {
		case errors.As(err, &perr):
			p.log.Warn("submit failed", "error", perr.Err)
			if err := p.driver.Info(ctx, perr.UserMessage()); err != nil {
				return nil, err
			}
		default:
			verr, ok := wizard.IsValidation(err)
			if !ok {
				return nil, err
			}
			if err := p.driver.Info(ctx, "! "+verr.Message); err != nil {
				return nil, err
			}
		}
	}
}

func (p *Presenter) ask(ctx context.Context, v model.View) (model.Event, error) {
	switch v.Kind {
	case model.KindInfo:
		return p.askInfo(ctx, v)
	case model.KindSingleChoice, model.KindMatrix:
		return p.askChoice(ctx, v)
	case model.KindMultiChoice:
		return p.askMulti(ctx, v)
	case model.KindNumeric, model.KindText:
		return p.askText(ctx, v)
	case model.KindReview:
		return p.askReview(ctx, v)
	default:
		return model.Event{}, fmt.Errorf("terminal: cannot render kind %q", v.Kind)
	}
}

func heading(v model.View) string {
	title := v.Title
	if v.Required {
		title += " *"
	}
	return fmt.Sprintf("(%d/%d) %s", v.Position+1, v.Total, title)
}

func answer(value string) model.Event {
	return model.Event{Type: model.EventAnswer, Input: model.Input{Value: value}}
}

var back = model.Event{Type: model.EventBack}

func (p *Presenter) askInfo(ctx context.Context, v model.View) (model.Event, error) {
	text := heading(v)
	if v.Body != "" {
		text += "\n\n" + strings.TrimSpace(v.Body)
	}
	if err := p.driver.Info(ctx, text); err != nil {
		return model.Event{}, err
	}
	options := []string{nextLabel}
	if v.CanRetreat {
		options = append(options, backLabel)
	}
	idx, err := p.driver.Select(ctx, SelectConfig{Message: nextLabel + "?", Options: options})
	if err != nil {
		return model.Event{}, err
	}
	if idx == 1 {
		return back, nil
	}
	return answer(""), nil
}

func (p *Presenter) askChoice(ctx context.Context, v model.View) (model.Event, error) {
	labels := make([]string, 0, len(v.Options)+2)
	defaultIdx := -1
	for i, opt := range v.Options {
		labels = append(labels, opt.Label)
		if v.Current != nil && v.Current.Value == opt.Value {
			defaultIdx = i
		}
	}
	skipIdx, backIdx := -1, -1
	if !v.Required {
		skipIdx = len(labels)
		labels = append(labels, skipLabel)
	}
	if v.CanRetreat {
		backIdx = len(labels)
		labels = append(labels, backLabel)
	}

	idx, err := p.driver.Select(ctx, SelectConfig{
		Message:      heading(v),
		Options:      labels,
		DefaultIndex: defaultIdx,
		PageSize:     defaultPage,
	})
	if err != nil {
		return model.Event{}, err
	}
	switch {
	case backIdx >= 0 && idx == backIdx:
		return back, nil
	case skipIdx >= 0 && idx == skipIdx:
		return answer(""), nil
	case idx >= 0 && idx < len(v.Options):
		return answer(v.Options[idx].Value), nil
	}
	return answer(""), nil
}

func (p *Presenter) askMulti(ctx context.Context, v model.View) (model.Event, error) {
	labels := make([]string, 0, len(v.Options)+1)
	var defaults []int
	chosen := map[string]bool{}
	if v.Current != nil {
		for _, val := range v.Current.Values {
			chosen[val] = true
		}
	}
	for i, opt := range v.Options {
		labels = append(labels, opt.Label)
		if chosen[opt.Value] {
			defaults = append(defaults, i)
		}
	}
	backIdx := -1
	if v.CanRetreat {
		backIdx = len(labels)
		labels = append(labels, backLabel)
	}

	picked, err := p.driver.MultiSelect(ctx, SelectConfig{
		Message:  heading(v),
		Options:  labels,
		Defaults: defaults,
		PageSize: defaultPage,
	})
	if err != nil {
		return model.Event{}, err
	}
	values := make([]string, 0, len(picked))
	for _, idx := range picked {
		if backIdx >= 0 && idx == backIdx {
			return back, nil
		}
		if idx >= 0 && idx < len(v.Options) {
			values = append(values, v.Options[idx].Value)
		}
	}
	return model.Event{Type: model.EventAnswer, Input: model.Input{Values: values}}, nil
}

func (p *Presenter) askText(ctx context.Context, v model.View) (model.Event, error) {
	help := v.Placeholder
	if v.Kind == model.KindNumeric && v.Min != nil && v.Max != nil {
		help = strings.TrimSpace(fmt.Sprintf("%s (%s a %s)", help, model.FormatNumber(*v.Min), model.FormatNumber(*v.Max)))
	}
	if v.CanRetreat {
		help = strings.TrimSpace(help + " " + backCommand + " para voltar")
	}
	def := ""
	if v.Current != nil {
		def = v.Current.Value
	}

	text, err := p.driver.Input(ctx, InputConfig{Message: heading(v), Default: def, Help: help})
	if err != nil {
		return model.Event{}, err
	}
	if v.CanRetreat && strings.TrimSpace(text) == backCommand {
		return back, nil
	}
	return answer(text), nil
}

func (p *Presenter) askReview(ctx context.Context, v model.View) (model.Event, error) {
	if err := p.driver.Info(ctx, reviewText(v)); err != nil {
		return model.Event{}, err
	}
	idx, err := p.driver.Select(ctx, SelectConfig{
		Message: v.Title,
		Options: []string{submitLabel, backLabel},
	})
	if err != nil {
		return model.Event{}, err
	}
	if idx == 1 {
		return back, nil
	}
	return model.Event{Type: model.EventSubmit}, nil
}

func reviewText(v model.View) string {
	var b strings.Builder
	b.WriteString(heading(v))
	if r := v.Review; r != nil {
		entities := missingValue
		if len(r.Entities) > 0 {
			entities = strings.Join(r.Entities, ", ")
		}
		fmt.Fprintf(&b, "\n\nGênero: %s\nIdade: %s\nFunção: %s\nEscolas: %s", r.Gender, r.Age, r.Role, entities)
	}
	return b.String()
}
