package ldbc

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	DecimalEncoder   = NewEncoder(func(v decimal.Decimal) Encoded { return success(Decimal(v)) })
	DateEncoder      = NewEncoder(func(v time.Time) Encoded { return success(Date(v)) })
	TimeOfDayEncoder = NewEncoder(func(v time.Time) Encoded { return success(TimeOfDay(v)) })
	TimestampEncoder = NewEncoder(func(v time.Time) Encoded { return success(Timestamp(v)) })
)
