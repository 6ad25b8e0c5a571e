package leads

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// leadInput carries normalized values through the validator. Tag order
// decides which message wins when a field breaks several rules.
type leadInput struct {
	Name           string `json:"name" validate:"min=2,max=100"`
	Email          string `json:"email" validate:"email,max=255"`
	Phone          string `json:"phone" validate:"min=10,max=20"`
	Age            int    `json:"age" validate:"min=18,max=120"`
	Profession     string `json:"profession" validate:"min=2"`
	AreaOfActivity string `json:"area_of_activity" validate:"min=2"`
	Channel        string `json:"channel" validate:"required,oneof=Instagram Facebook LinkedIn TikTok Outro"`
}

const msgInvalidAge = "Idade inválida"

var fieldMessages = map[string]string{
	"name.min":             "Nome deve ter pelo menos 2 caracteres",
	"name.max":             "Nome muito longo",
	"email.email":          "E-mail inválido",
	"email.max":            "E-mail muito longo",
	"phone.min":            "Telefone deve ter pelo menos 10 dígitos",
	"phone.max":            "Telefone muito longo",
	"age.min":              "Você deve ser maior de 18 anos",
	"age.max":              msgInvalidAge,
	"profession.min":       "Profissão é obrigatória",
	"area_of_activity.min": "Área de atuação é obrigatória",
	"channel.required":     "Selecione por onde nos conheceu",
	"channel.oneof":        "Canal inválido",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// Validate checks a submission. It returns the normalized lead, or a
// non-empty FieldErrors with one message per offending field. It has no
// side effects.
func Validate(sub Submission) (Validated, FieldErrors) {
	in := leadInput{
		Name:           strings.TrimSpace(sub.Name),
		Email:          strings.TrimSpace(sub.Email),
		Phone:          strings.TrimSpace(sub.Phone),
		Profession:     strings.TrimSpace(sub.Profession),
		AreaOfActivity: strings.TrimSpace(sub.AreaOfActivity),
		Channel:        sub.Channel,
	}

	errs := FieldErrors{}
	age, ageOK := parseAge(sub.Age)
	in.Age = age
	if !ageOK {
		errs["age"] = msgInvalidAge
	}

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			// Only reachable on a programming error in leadInput.
			panic(err)
		}
		for _, fe := range verrs {
			field := fe.Field()
			if _, seen := errs[field]; seen {
				continue
			}
			msg, ok := fieldMessages[field+"."+fe.Tag()]
			if !ok {
				msg = "Valor inválido"
			}
			errs[field] = msg
		}
	}

	if len(errs) > 0 {
		return Validated{}, errs
	}
	return Validated{
		Name:           in.Name,
		Email:          strings.ToLower(in.Email),
		Phone:          in.Phone,
		Age:            in.Age,
		Profession:     in.Profession,
		AreaOfActivity: in.AreaOfActivity,
		Channel:        in.Channel,
	}, nil
}

// parseAge coerces the form value. A blank value becomes 0 so it fails the
// minimum-age rule; anything that is not a whole number is rejected.
func parseAge(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return age, true
}
