// Package fuzztests holds Go fuzz harnesses for the front half of the
// toolchain: lexer, parser, checker and lowering. Arbitrary input may be
// rejected with diagnostics but must never panic, hang or produce a module
// that fails ir.Validate.
//
// Не делает: исполнение программ, там возможны бесконечные циклы.
package fuzztests
