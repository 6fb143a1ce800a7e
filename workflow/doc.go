// Package workflow provides sequential stage pipelines for recurring ad
// operations (campaign launch, pacing checks, optimization sweeps) and a cron
// scheduler that runs them on a timetable.
package workflow
