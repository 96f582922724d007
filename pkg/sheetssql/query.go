package sheetssql

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ErrRowNotFound is returned when no row carries the requested key
var ErrRowNotFound = errors.New("row not found")

// GetTableAs retrieves all rows from the table of T and maps them to structs, in sheet order.
// The header and type rows are skipped and empty rows are ignored.
func GetTableAs[T any](ctx context.Context, db *DB) ([]T, error) {
	t := reflect.TypeOf(*new(T))
	name := tableName(t)

	values, err := db.client.GetValues(ctx, db.spreadsheetID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", name, err)
	}

	if len(values) <= headerRows {
		return []T{}, nil
	}

	columnIndexes := make(map[string]int)
	for i, header := range values[0] {
		columnIndexes[cellString(header)] = i
	}

	results := make([]T, 0, len(values)-headerRows)
	for rowIdx, row := range values[headerRows:] {
		if isEmptyRow(row) {
			continue
		}

		result := reflect.New(t).Elem()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			colIdx, ok := columnIndexes[field.Tag.Get("ssql_header")]
			if !ok || colIdx >= len(row) || row[colIdx] == nil {
				continue
			}

			if err := setFieldValue(result.Field(i), row[colIdx]); err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", rowIdx+headerRows+1, field.Tag.Get("ssql_header"), err)
			}
		}

		results = append(results, result.Interface().(T))
	}

	return results, nil
}

// InsertModel appends a struct as a row to its corresponding table
func InsertModel[T any](ctx context.Context, db *DB, model T) error {
	return InsertModels(ctx, db, []T{model})
}

// InsertModels appends multiple structs as rows to their corresponding table
func InsertModels[T any](ctx context.Context, db *DB, models []T) error {
	if len(models) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(models))
	for _, model := range models {
		rows = append(rows, rowFromModel(model))
	}

	return db.InsertRows(ctx, tableName(reflect.TypeOf(models[0])), rows)
}

// UpdateModel rewrites the first row whose keyColumn cell equals the model's value for that
// column. ErrRowNotFound is returned when there is no such row.
func UpdateModel[T any](ctx context.Context, db *DB, keyColumn string, model T) error {
	t := reflect.TypeOf(model)
	name := tableName(t)

	key, ok := fieldByHeader(model, keyColumn)
	if !ok {
		return fmt.Errorf("%s has no column %s", t.Name(), keyColumn)
	}

	rowNumber, err := FindRow[T](ctx, db, keyColumn, cellString(key))
	if err != nil {
		return err
	}

	row := rowFromModel(model)
	sheetRange := fmt.Sprintf("%s!A%d:%s%d", name, rowNumber, columnLetter(len(row)), rowNumber)
	if err := db.client.UpdateRows(ctx, db.spreadsheetID, sheetRange, [][]interface{}{row}); err != nil {
		return fmt.Errorf("failed to update %s row %d: %w", name, rowNumber, err)
	}

	return nil
}

// FindRow returns the 1-based sheet row number of the first row of T's table whose
// keyColumn cell equals key
func FindRow[T any](ctx context.Context, db *DB, keyColumn, key string) (int, error) {
	name := tableName(reflect.TypeOf(*new(T)))

	values, err := db.client.GetValues(ctx, db.spreadsheetID, name)
	if err != nil {
		return 0, fmt.Errorf("failed to get table %s: %w", name, err)
	}
	if len(values) == 0 {
		return 0, fmt.Errorf("table %s has no header row", name)
	}

	keyIdx := -1
	for i, header := range values[0] {
		if cellString(header) == keyColumn {
			keyIdx = i
			break
		}
	}
	if keyIdx < 0 {
		return 0, fmt.Errorf("table %s has no column %s", name, keyColumn)
	}

	for i := headerRows; i < len(values); i++ {
		row := values[i]
		if keyIdx < len(row) && cellString(row[keyIdx]) == key {
			return i + 1, nil
		}
	}

	return 0, fmt.Errorf("%w: %s %s=%s", ErrRowNotFound, name, keyColumn, key)
}

func rowFromModel(model interface{}) []interface{} {
	t := reflect.TypeOf(model)
	v := reflect.ValueOf(model)

	row := make([]interface{}, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("ssql_header") == "" {
			continue
		}
		row = append(row, v.Field(i).Interface())
	}
	return row
}

func fieldByHeader(model interface{}, header string) (interface{}, bool) {
	t := reflect.TypeOf(model)
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("ssql_header") == header {
			return reflect.ValueOf(model).Field(i).Interface(), true
		}
	}
	return nil, false
}

func isEmptyRow(row []interface{}) bool {
	for _, cell := range row {
		if cellString(cell) != "" {
			return false
		}
	}
	return true
}

// cellString renders a cell as text. Unformatted reads return numbers as float64.
func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// setFieldValue converts a sheet cell value to the field's Go type and sets it
func setFieldValue(field reflect.Value, cellValue interface{}) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	cellStr := strings.TrimSpace(cellString(cellValue))

	switch field.Kind() {
	case reflect.String:
		field.SetString(cellString(cellValue))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if cellStr == "" {
			field.SetInt(0)
			return nil
		}
		intVal, err := strconv.ParseInt(cellStr, 10, 64)
		if err != nil {
			floatVal, ferr := strconv.ParseFloat(cellStr, 64)
			if ferr != nil {
				return fmt.Errorf("failed to parse int: %w", err)
			}
			intVal = int64(floatVal)
		}
		field.SetInt(intVal)

	case reflect.Float32, reflect.Float64:
		if cellStr == "" {
			field.SetFloat(0)
			return nil
		}
		floatVal, err := strconv.ParseFloat(cellStr, 64)
		if err != nil {
			return fmt.Errorf("failed to parse float: %w", err)
		}
		field.SetFloat(floatVal)

	case reflect.Bool:
		if cellStr == "" {
			field.SetBool(false)
			return nil
		}
		boolVal, err := strconv.ParseBool(cellStr)
		if err != nil {
			return fmt.Errorf("failed to parse bool: %w", err)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}
