package ldbc

import (
	"time"

	"github.com/shopspring/decimal"
)

func decimalValue(d Decimal) decimal.Decimal { return decimal.Decimal(d) }
func dateValue(d Date) time.Time             { return time.Time(d) }
func timeValue(t TimeOfDay) time.Time        { return time.Time(t) }
func timestampValue(t Timestamp) time.Time   { return time.Time(t) }
