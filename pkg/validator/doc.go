// Package validator provides declarative request validation for the shop API.
//
// Validation is expressed as ordered rule tables. A FieldRule binds one field
// path to an ordered list of checks, each carrying exactly one human-readable
// message. A RuleSet is a named, ordered list of field rules describing one
// operation such as "create order". Rule sets are evaluated against a Document
// built from the request body, route params and query string.
//
// # Evaluation
//
// Field rules run in declaration order. Within one field the checks run in
// order and the first failing check records its message; later checks for the
// same path are skipped. The Optional marker stops evaluation of a path without
// an error when the value is missing, null or the empty string:
//
//	create := validator.NewRuleSet("create order",
//	    validator.Field("products").Required("Vui lòng chọn sản phẩm").
//	        Array(1, "Đơn hàng phải có ít nhất một sản phẩm"),
//	    validator.Field("products.*.count").Int(1, "Số lượng phải là số nguyên dương"),
//	    validator.Field("totalPrice").Required("").Float(0, "Tổng tiền phải lớn hơn 0"),
//	)
//	update := create.Partial() // every field optional
//
//	outcome := create.Check(doc)
//	if !outcome.Valid() {
//	    first := outcome.First() // surfaced to the client
//	}
//
// Because only the first error is surfaced, field declaration order is part of
// a rule set's observable behaviour.
//
// # Paths
//
// Paths are dotted (address.city). The "*" segment expands to every element of
// an array (products.*.count becomes products.0.count, products.1.count, ...)
// and is reported as products[0].count. Route params are looked up first, so a
// body field of the same name cannot mask the URL. Then the body is read with
// gjson, then the query string.
//
// Numeric rules (Int, Float, Range) accept JSON numbers from the body. Numeric
// strings are accepted only from route params and the query string. NaN and
// infinities never pass.
//
// # Typed rules
//
// Rule and Apply remain available for checks over already-bound Go values,
// for example stock checks inside a handler:
//
//	err := validator.Apply(
//	    validator.MaxNum("quantity", req.Quantity, product.Quantity),
//	)
//
// Everything in this package is stateless and safe for concurrent use.
package validator
