package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"unicode"

	"github.com/dcalderon/example-users-api/internal/logger"
	"github.com/dcalderon/example-users-api/internal/models"
	"github.com/dcalderon/example-users-api/internal/services"
)

const userFormTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
  <meta charset="utf-8">
  <title>Registro de usuarios</title>
</head>
<body>
  {{if .Message}}<div class="messages status">{{.Message}}</div>{{end}}
  {{range .Errors}}<div class="messages error">{{.}}</div>{{end}}
  <form method="post" action="{{.Action}}">
    <div>
      <label for="name">Nombre</label>
      <input type="text" id="name" name="name" value="{{.Values.Name}}" required>
    </div>
    <div>
      <label for="tid">Identificaci&oacute;n</label>
      <input type="number" id="tid" name="tid" value="{{.Values.TID}}" required>
    </div>
    <div>
      <label for="age">Fecha de nacimiento</label>
      <input type="date" id="age" name="age" value="{{.Values.Age}}">
    </div>
    <div>
      <label for="type">Cargo</label>
      <select id="type" name="type">
        <option value=""></option>
        {{range .Types}}<option value="{{.}}"{{if eq . $.Values.Type}} selected{{end}}>{{.}}</option>{{end}}
      </select>
    </div>
    <div>
      <input type="submit" value="Enviar">
    </div>
  </form>
</body>
</html>
`

var userFormTmpl = template.Must(template.New("user_form").Parse(userFormTemplate))

// userFormValues holds the raw submitted values, echoed back on error.
type userFormValues struct {
	Name string
	TID  string
	Age  string
	Type string
}

// userFormPage is the template context for the user form.
type userFormPage struct {
	Action  string
	Types   []string
	Values  userFormValues
	Message string
	Errors  []string
}

// NewUserFormPageHandler returns an HTTP handler rendering the empty
// user creation form.
func NewUserFormPageHandler(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderUserForm(w, http.StatusOK, userFormPage{
			Action: action,
			Types:  models.UserTypes,
		})
	}
}

// NewUserFormSubmitHandler returns an HTTP handler processing the form
// submission. The persistence contract is the same as the REST create:
// the submitted values go through the shared validation service.
func NewUserFormSubmitHandler(svc UserCreator, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}

		values := userFormValues{
			Name: r.PostFormValue("name"),
			TID:  r.PostFormValue("tid"),
			Age:  r.PostFormValue("age"),
			Type: r.PostFormValue("type"),
		}
		page := userFormPage{
			Action: action,
			Types:  models.UserTypes,
			Values: values,
		}

		if errs := validateUserFormValues(values); len(errs) > 0 {
			page.Errors = errs
			renderUserForm(w, http.StatusBadRequest, page)
			return
		}

		err := svc.Create(r.Context(), models.CreateUserRequest{
			TargetID:  values.TID,
			Username:  values.Name,
			DateBirth: values.Age,
			Type:      values.Type,
		})
		if err != nil {
			page.Errors = []string{userFormError(err, values.TID)}
			status := http.StatusBadRequest
			var validationErr *services.ValidationError
			if !errors.Is(err, services.ErrUserAlreadyExists) &&
				!errors.Is(err, services.ErrMissingRequiredFields) &&
				!errors.As(err, &validationErr) {
				logger.Log.Errorw("form submission failed", "tid", values.TID, "err", err)
				status = http.StatusInternalServerError
			}
			renderUserForm(w, status, page)
			return
		}

		page.Message = fmt.Sprintf("El usuario %s se guardó correctamente.", values.Name)
		page.Values = userFormValues{}
		renderUserForm(w, http.StatusOK, page)
	}
}

// validateUserFormValues applies the form-level rules: name is required
// and alphanumeric, tid is required. Everything else is left to the
// shared validation service.
func validateUserFormValues(values userFormValues) []string {
	var errs []string
	if values.Name == "" {
		errs = append(errs, "El campo Nombre es obligatorio.")
	} else if !isAlphanumeric(values.Name) {
		errs = append(errs, "El campo Nombre sólo admite caracteres alfanuméricos.")
	}
	if values.TID == "" {
		errs = append(errs, "El campo Identificación es obligatorio.")
	}
	return errs
}

// userFormError translates service errors into the form's messages.
func userFormError(err error, tid string) string {
	var validationErr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrUserAlreadyExists):
		return fmt.Sprintf("El usuario con identificación %s ya se encuentra registrado.", tid)
	case errors.Is(err, services.ErrMissingRequiredFields):
		return "El campo Nombre es obligatorio."
	case errors.As(err, &validationErr):
		return validationErr.Reason
	default:
		return "Internal server error"
	}
}

func renderUserForm(w http.ResponseWriter, status int, page userFormPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := userFormTmpl.Execute(w, page); err != nil {
		logger.Log.Errorw("failed to render user form", "err", err)
	}
}

func isAlphanumeric(s string) bool {
	for _, c := range s {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}
