package util

import (
	"fmt"
	"io"
	"strings"

	"github.com/RichardKnop/minidb/internal/core/minidb"
)

const (
	truncatedStringEnd = " ..."
	maxLength          = 40
)

type column struct {
	Name  string
	Width int
}

var rowColumns = []column{
	{Name: "id", Width: 10},
	{Name: "name", Width: minidb.NameMaxLength},
	{Name: "email", Width: maxLength},
}

// PrintRows writes rows as an ASCII table with id, name and email columns.
func PrintRows(w io.Writer, rows []minidb.Row) {
	PrintTableHeader(w)
	for _, aRow := range rows {
		PrintTableRow(w, aRow)
	}
	PrintTableEnd(w)
}

func PrintTableHeader(w io.Writer) {
	tableWidth := computeTableWidth(rowColumns)

	// add top horizontal header
	fmt.Fprintf(w, "+%s+\n", strings.Repeat("-", tableWidth-2))

	for i, aColumn := range rowColumns {
		// pad with spaces on the right rather than the left (left-justify the field)
		fmt.Fprintf(w, "| %-*s ", aColumn.Width, aColumn.Name)
		// new line after last cell in a row
		if i == len(rowColumns)-1 {
			fmt.Fprintf(w, "|\n")
		}
	}

	// add horizontal border bellow the header row
	fmt.Fprintf(w, "+%s+\n", strings.Repeat("-", tableWidth-2))
}

func PrintTableRow(w io.Writer, aRow minidb.Row) {
	values := []any{aRow.ID, aRow.Name, aRow.Email}
	for i, aValue := range values {
		fmt.Fprintf(w, "| %-*s ", rowColumns[i].Width, truncate(fmt.Sprint(aValue), rowColumns[i].Width))
	}
	fmt.Fprintf(w, "|\n")
}

func PrintTableEnd(w io.Writer) {
	tableWidth := computeTableWidth(rowColumns)

	fmt.Fprintf(w, "+%s+\n", strings.Repeat("-", tableWidth-2))
}

func truncate(value string, width int) string {
	r := []rune(value)
	if len(r) > width {
		return string(r[0:width-len(truncatedStringEnd)]) + truncatedStringEnd
	}
	return value
}

func computeTableWidth(columns []column) int {
	// left border is | followed by a space, right border is space followed by | (2+2=4)
	// then between each column we have space, |, space (3)
	tableWidth := 4 + (len(columns)-1)*3
	for _, aColumn := range columns {
		tableWidth += aColumn.Width
	}

	return tableWidth
}
