package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursebatch/internal/content"
	"coursebatch/internal/enrollment/service"
	"coursebatch/internal/enrollment/store/batch"
	"coursebatch/internal/enrollment/store/enrolment"
)

func TestStartReconciler(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(batch.NewInMemory(), enrolment.NewInMemory(), content.NewStaticResolver())

	c, err := startReconciler("", svc, log)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = startReconciler("every now and then", svc, log)
	assert.Error(t, err)

	c, err = startReconciler("@every 1h", svc, log)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
