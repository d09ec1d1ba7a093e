package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	Insert(ctx context.Context, r Record) (Record, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Record, error)
	SetCheckOut(ctx context.Context, attendanceID string, checkOut time.Time, location string, totalHours, overtime float64) (Record, error)
	List(ctx context.Context, filter ListFilter) (ListResult, error)
	Summaries(ctx context.Context, from, to time.Time) ([]Summary, error)
}
