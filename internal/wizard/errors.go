package wizard

import (
	"errors"
	"fmt"
)

// Messages shown to the respondent.
const (
	MsgSelectOption  = "Selecione uma opção."
	MsgInvalidOption = "Opção inválida."
	MsgFillField     = "Preencha este campo."
	MsgSelectAtLeast = "Selecione ao menos uma opção."
	MsgInvalidNumber = "Informe um número válido."
	MsgDeclined      = "Questionário encerrado. Obrigado pela leitura."
	MsgSubmitted     = "Obrigado! Respostas salvas."
	MsgSubmitFailed  = "Erro ao salvar. Tente novamente."
	msgRangeTemplate = "Valor deve ser entre %s e %s."
	msgMinTemplate   = "Valor deve ser maior ou igual a %s."
	msgMaxTemplate   = "Valor deve ser menor ou igual a %s."
)

var (
	ErrTerminated           = errors.New("wizard: session terminated")
	ErrSubmitInFlight       = errors.New("wizard: submit already in progress")
	ErrNotAtReview          = errors.New("wizard: submit is only allowed on the review step")
	ErrReviewRequiresSubmit = errors.New("wizard: review step advances by submitting")
	ErrUnknownEvent         = errors.New("wizard: unknown event type")
)

// ValidationError rejects input for one step. The response state is
// unchanged when it is returned.
type ValidationError struct {
	StepID      string `json:"stepId"`
	QuestionKey string `json:"questionKey"`
	Entity      string `json:"entity,omitempty"`
	Message     string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wizard: step %s: %s", e.StepID, e.Message)
}

// PersistenceError means the sink refused the payload. The controller stays
// on the review step and Submit may be retried.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "wizard: submit: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the respondent.
func (e *PersistenceError) UserMessage() string { return MsgSubmitFailed }

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
