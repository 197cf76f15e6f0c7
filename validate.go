package framed

import "reflect"

// Validator lets decoded types enforce structural requirements that the
// wire format alone cannot express, such as required fields. When a
// decoded value (or a pointer to it) implements Validator, the codec
// calls Validate after unmarshaling and reports a failure as a decode
// failure.
//
// Example:
//
//	type Order struct {
//	    ID    string  `json:"id"`
//	    Total float64 `json:"total"`
//	}
//
//	func (o *Order) Validate() error {
//	    if o.ID == "" {
//	        return errors.New("order id is required")
//	    }
//	    return nil
//	}
type Validator interface {
	Validate() error
}

// validate runs the Validator hook if the decoded value implements it.
// v is always a pointer to the decoded value; the value itself is checked
// first so pointer-typed values (e.g. *Order) are handled too. A decoded
// nil pointer (JSON null) is not validated.
func validate[T any](v *T) error {
	if val, ok := any(*v).(Validator); ok {
		if rv := reflect.ValueOf(*v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return nil
		}
		return val.Validate()
	}
	if val, ok := any(v).(Validator); ok {
		return val.Validate()
	}
	return nil
}
