package safety

import (
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"reflect"
)

// SanitizeCareer returns a sanitized copy of the career. The description keeps
// its rich-text markup, the other text fields become plain text, and nested
// structures are walked recursively so that every string inside them is
// stripped too. The input is never modified.
func SanitizeCareer(career models.Career) models.Career {
	out := career.Clone()

	out.Description = SanitizeHTML(career.Description)

	for _, field := range []*string{
		&out.Title,
		&out.Location,
		&out.WorkSetup,
		&out.WorkSetupRemarks,
		&out.SecretPrompt,
		&out.InterviewSecretPrompt,
		&out.EmploymentType,
		&out.Country,
		&out.Province,
		&out.ScreeningSetting,
		&out.InterviewScreeningSetting,
	} {
		*field = SanitizePlainText(*field)
	}

	out.Questions = SanitizeNested(career.Questions)
	out.PreScreeningQuestions = SanitizeNested(career.PreScreeningQuestions)
	out.TeamMembers = SanitizeNested(career.TeamMembers)
	out.CompletedSteps = SanitizeNested(career.CompletedSteps)
	out.CreatedBy = SanitizeNested(career.CreatedBy)
	out.LastEditedBy = SanitizeNested(career.LastEditedBy)

	return out
}

// SanitizeNested deep-copies value and runs every string it reaches through
// the plain-text sanitizer. Unexported struct state is copied as is.
func SanitizeNested[T any](value T) T {
	v := reflect.ValueOf(&value).Elem()
	return sanitizeValue(v).Interface().(T)
}

func sanitizeValue(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.String:
		out := reflect.New(v.Type()).Elem()
		out.SetString(SanitizePlainText(v.String()))
		return out

	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type().Elem())
		out.Elem().Set(sanitizeValue(v.Elem()))
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(sanitizeValue(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(sanitizeValue(v.Index(i)))
		}
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), sanitizeValue(iter.Value()))
		}
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		for i := 0; i < v.NumField(); i++ {
			if !v.Type().Field(i).IsExported() {
				continue
			}
			out.Field(i).Set(sanitizeValue(v.Field(i)))
		}
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(sanitizeValue(v.Elem()))
		return out

	default:
		return v
	}
}
