package janitor

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn matches any MissingColumnError.
	ErrMissingColumn = errors.New("missing required column")
	// ErrTypeConversion matches any TypeConversionError.
	ErrTypeConversion = errors.New("type conversion failed")
)

// MissingColumnError reports a step that depends on a column the frame lacks.
// Pipeline.Run prefixes the step name when wrapping it.
type MissingColumnError struct {
	Step   string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// TypeConversionError reports a cell that cannot be read as the kind a step
// or a reader needs. Row is zero-based.
type TypeConversionError struct {
	Column string
	Row    int
	Value  string
	Want   Kind
	Err    error
}

func (e *TypeConversionError) Error() string {
	msg := fmt.Sprintf("column %q row %d: cannot convert %q to %v", e.Column, e.Row, e.Value, e.Want)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TypeConversionError) Is(target error) bool { return target == ErrTypeConversion }
func (e *TypeConversionError) Unwrap() error        { return e.Err }

// RequireColumn looks up name and returns a MissingColumnError tagged with step
// when it is absent.
func RequireColumn(f *Frame, step, name string) (Column, error) {
	col, ok := f.ColumnByName(name)
	if !ok {
		return nil, &MissingColumnError{Step: step, Column: name}
	}
	return col, nil
}
