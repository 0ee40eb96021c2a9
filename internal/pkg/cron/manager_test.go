package cron

import (
	"Gazette/internal/job"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegisterJobs(t *testing.T) {
	cleanup := job.NewMediaCleanupJob(nil, nil, nil, nil, nil, time.Hour)

	assert.NoError(t, NewCronManager("0 */10 * * * *", cleanup).RegisterJobs())
	assert.Error(t, NewCronManager("every now and then", cleanup).RegisterJobs())
	assert.NoError(t, NewCronManager("", nil).RegisterJobs(), "nothing to register without a job")
}
