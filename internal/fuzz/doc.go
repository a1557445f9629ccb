// Package fuzztests houses Go fuzz harnesses for the conversion pipeline
// (source -> lexer -> parser -> transform -> encode) and for the syntax
// tree JSON decoder. The goal is to guard against panics, hangs and broken
// tree invariants on arbitrary input.
//
// Назначение: загрузить байты в FileSet и прогнать их через лексер, парсер,
// преобразование в записи и кодирование.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
