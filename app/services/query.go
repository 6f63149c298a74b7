package services

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Event names fired by services.
const (
	EventOrderPlaced    = "order.placed"
	EventBookingCreated = "booking.created"
	EventInquiryCreated = "inquiry.created"
	EventPasswordReset  = "password.reset-requested"
)

// enumFilter normalises a list filter. "" and "all" mean no filter.
func enumFilter(v string) (string, bool) {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, "all") {
		return "", false
	}
	return strings.ToUpper(v), true
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// jsonArrayContains matches rows whose JSON array column holds value.
func jsonArrayContains(db *gorm.DB, column, value string) clause.Expression {
	switch db.Dialector.Name() {
	case "postgres":
		return clause.Expr{SQL: "CAST(" + column + " AS jsonb) @> jsonb_build_array(CAST(? AS text))", Vars: []any{value}}
	case "mysql":
		return clause.Expr{SQL: "JSON_CONTAINS(" + column + ", JSON_QUOTE(?))", Vars: []any{value}}
	case "sqlserver":
		return clause.Expr{SQL: "EXISTS (SELECT 1 FROM OPENJSON(" + column + ") WHERE value = ?)", Vars: []any{value}}
	default:
		return clause.Expr{SQL: "EXISTS (SELECT 1 FROM json_each(" + column + ") WHERE json_each.value = ?)", Vars: []any{value}}
	}
}

// forUpdate row-locks the next read on databases that support it. SQLite
// serialises writers already.
func forUpdate(tx *gorm.DB) *gorm.DB {
	switch tx.Dialector.Name() {
	case "postgres", "mysql":
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// countBy returns column → COUNT(*) for rows of model grouped by column.
func countBy(db *gorm.DB, model any, column string, ids []uint, scope func(*gorm.DB) *gorm.DB) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		RefID uint
		Total int64
	}
	q := db.Model(model).Select(column+" AS ref_id, COUNT(*) AS total").Where(column+" IN ?", ids)
	if scope != nil {
		q = scope(q)
	}
	if err := q.Group(column).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.RefID] = r.Total
	}
	return out, nil
}
