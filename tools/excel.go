package tools

import (
	"fmt"
	"reflect"
	"time"

	"github.com/xuri/excelize/v2"
)

const excelTimeLayout = "2006-01-02 15:04:05"

// ExportToExcel 把结构体切片按行写入 sheet，首行为表头
// 表头取 excel tag，缺省为字段名；excel:"-" 跳过；空切片只写表头
func ExportToExcel(f *excelize.File, sheet string, data any) error {
	rows := reflect.ValueOf(data)
	if rows.Kind() != reflect.Slice {
		return fmt.Errorf("data %T is not a slice", data)
	}
	elemType := rows.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("data %T is not a slice of structs", data)
	}

	if sheet == "" {
		sheet = "Sheet1"
	}
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
	}

	columns := excelColumns(elemType, nil)
	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col.header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	line := 2
	for i := 0; i < rows.Len(); i++ {
		elem := reflect.Indirect(rows.Index(i))
		if !elem.IsValid() {
			continue
		}

		values := make([]any, len(columns))
		for j, col := range columns {
			values[j] = excelValue(elem.FieldByIndex(col.index))
		}
		cell, err := excelize.CoordinatesToCellName(1, line)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		line++
	}
	return nil
}

type excelColumn struct {
	index  []int
	header string
}

// excelColumns 展开未打 tag 的匿名结构体字段
func excelColumns(t reflect.Type, parent []int) []excelColumn {
	var columns []excelColumn
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		index := append(append([]int(nil), parent...), i)

		tag := sf.Tag.Get("excel")
		switch {
		case tag == "-":
			continue
		case tag == "" && sf.Anonymous && sf.Type.Kind() == reflect.Struct:
			columns = append(columns, excelColumns(sf.Type, index)...)
			continue
		case tag == "":
			tag = sf.Name
		}
		columns = append(columns, excelColumn{index: index, header: tag})
	}
	return columns
}

// excelValue nil 指针写为空串，时间按本地格式输出
func excelValue(v reflect.Value) any {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ""
		}
		v = v.Elem()
	}
	value := v.Interface()
	if t, ok := value.(time.Time); ok {
		return t.Format(excelTimeLayout)
	}
	return value
}
