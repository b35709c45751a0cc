package minidb

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

const (
	NameMaxLength  = 32
	EmailMaxLength = 255

	// Each string column reserves one extra byte for the NUL terminator
	// so the stored bytes stay readable as C strings.
	idSize    = 4
	nameSize  = NameMaxLength + 1
	emailSize = EmailMaxLength + 1

	idOffset    = 0
	nameOffset  = idOffset + idSize
	emailOffset = nameOffset + nameSize

	RowSize = idSize + nameSize + emailSize
)

// Row is the fixed schema record stored in every leaf cell, ID is also the key.
type Row struct {
	ID    uint32
	Name  string
	Email string
}

// NewRow validates raw input values and returns a row ready to be inserted.
func NewRow(id int64, name, email string) (Row, error) {
	if id < 0 {
		return Row{}, newValidationError(ErrNegativeID, "id %d", id)
	}
	if id > math.MaxUint32 {
		return Row{}, newValidationError(ErrIDTooLarge, "id %d", id)
	}
	aRow := Row{
		ID:    uint32(id),
		Name:  name,
		Email: email,
	}
	if err := aRow.Validate(); err != nil {
		return Row{}, err
	}
	return aRow, nil
}

// Validate checks string columns fit into their fixed size slots.
func (r Row) Validate() error {
	if len(r.Name) > NameMaxLength {
		return newValidationError(ErrNameTooLong, "name has %d bytes, maximum is %d", len(r.Name), NameMaxLength)
	}
	if len(r.Email) > EmailMaxLength {
		return newValidationError(ErrEmailTooLong, "email has %d bytes, maximum is %d", len(r.Email), EmailMaxLength)
	}
	if strings.IndexByte(r.Name, 0) >= 0 || strings.IndexByte(r.Email, 0) >= 0 {
		return newValidationError(ErrInvalidString, "NUL byte in value")
	}
	return nil
}

func (r Row) Key() uint32 {
	return r.ID
}

func (r Row) String() string {
	return fmt.Sprintf("(%d, %s, %s)", r.ID, r.Name, r.Email)
}

// Marshal serializes the row into buf at fixed offsets, buf must be at least RowSize long.
func (r Row) Marshal(buf []byte) error {
	if len(buf) < RowSize {
		return fmt.Errorf("row buffer too small: %d", len(buf))
	}
	if len(r.Name) > NameMaxLength || len(r.Email) > EmailMaxLength {
		return fmt.Errorf("row %d does not fit into a cell", r.ID)
	}

	marshalUint32(buf, r.ID, idOffset)

	clear(buf[nameOffset : nameOffset+nameSize])
	copy(buf[nameOffset:], r.Name)

	clear(buf[emailOffset : emailOffset+emailSize])
	copy(buf[emailOffset:], r.Email)

	return nil
}

func UnmarshalRow(buf []byte, aRow *Row) error {
	if len(buf) < RowSize {
		return fmt.Errorf("row buffer too small: %d", len(buf))
	}

	aRow.ID = unmarshalUint32(buf, idOffset)
	aRow.Name = cString(buf[nameOffset : nameOffset+nameSize])
	aRow.Email = cString(buf[emailOffset : emailOffset+emailSize])

	return nil
}

func cString(buf []byte) string {
	if idx := bytes.IndexByte(buf, 0); idx >= 0 {
		buf = buf[:idx]
	}
	return string(buf)
}
