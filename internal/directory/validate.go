package directory

import (
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/navikon/atlasbot/internal/models"
)

var (
	personNamePattern = regexp.MustCompile(`^[А-ЯЁа-яёA-Za-z\s'-]{2,50}$`)
	strictEmailShape  = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	phonePattern      = regexp.MustCompile(`^[\d\s()+-]{7,20}$`)
)

// employeeInput mirrors the validatable subset of an employee record.
// Optional fields use omitempty so that absence is never an error.
type employeeInput struct {
	FirstName     string `validate:"required,person_name"`
	LastName      string `validate:"required,person_name"`
	Email         string `validate:"omitempty,email_shape"`
	Phone         string `validate:"omitempty,phone_shape"`
	BirthdayDay   *int   `validate:"omitempty,min=1,max=31"`
	BirthdayMonth *int   `validate:"omitempty,min=1,max=12"`
}

// validationMessages maps a failed field to its user-facing message.
// All failures for one record are reported together.
var validationMessages = map[string]string{
	"FirstName":     "Имя обязательно и должно содержать 2-50 символов (только буквы, пробелы, дефисы)",
	"LastName":      "Фамилия обязательна и должна содержать 2-50 символов (только буквы, пробелы, дефисы)",
	"Email":         "Некорректный формат email",
	"Phone":         "Некорректный формат телефона",
	"BirthdayDay":   "День рождения должен быть от 1 до 31",
	"BirthdayMonth": "Месяц рождения должен быть от 1 до 12",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "person_name", personNamePattern)
	mustRegister(v, "email_shape", strictEmailShape)
	mustRegister(v, "phone_shape", phonePattern)
	return v
}

func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic("failed to register validation " + tag + ": " + err.Error())
	}
}

// ValidateEmployee checks an employee record before creation and returns the
// collected list of problems, empty when the record is valid.
func ValidateEmployee(emp models.Employee) []string {
	input := employeeInput{
		FirstName:     emp.FirstName,
		LastName:      emp.LastName,
		Email:         emp.Email,
		Phone:         emp.Phone,
		BirthdayDay:   emp.BirthdayDay,
		BirthdayMonth: emp.BirthdayMonth,
	}

	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var problems []string
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"Некорректные данные сотрудника"}
	}
	for _, fieldErr := range validationErrors {
		if msg, known := validationMessages[fieldErr.Field()]; known {
			problems = append(problems, msg)
		}
	}

	return problems
}
