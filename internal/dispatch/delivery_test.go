package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/stretchr/testify/require"

	"github.com/vaskito85/buscador-precios/internal/dispatch"
	"github.com/vaskito85/buscador-precios/internal/pipeline"
	"github.com/vaskito85/buscador-precios/pkg/domain"
	"github.com/vaskito85/buscador-precios/pkg/logger"
	"github.com/vaskito85/buscador-precios/pkg/storage/storagetest"
)

func TestMain(m *testing.M) {
	logger.Setup(logger.DevelopmentEnvironment)
	m.Run()
}

// recordingDeliverer captures delivered notifications and optionally fails.
type recordingDeliverer struct {
	delivered []domain.Notification
	err       error
}

func (d *recordingDeliverer) Deliver(_ context.Context, n domain.Notification) error {
	if d.err != nil {
		return d.err
	}
	d.delivered = append(d.delivered, n)

	return nil
}

func makeJob(id int64, notificationID uuid.UUID) *river.Job[pipeline.DeliverJobArgs] {
	return &river.Job[pipeline.DeliverJobArgs]{
		JobRow: &rivertype.JobRow{ID: id},
		Args:   pipeline.DeliverJobArgs{NotificationID: notificationID},
	}
}

func seedNotification(t *testing.T, st *storagetest.Fake) domain.Notification {
	t.Helper()

	n, inserted, err := st.InsertNotification(context.Background(), domain.Notification{
		UserID:     domain.UserID(uuid.New()),
		AlertID:    domain.AlertID(uuid.New()),
		SightingID: domain.SightingID(uuid.New()),
	})
	require.NoError(t, err)
	require.True(t, inserted)

	return *n
}

func TestDeliveryWorker_Work_Success(t *testing.T) {
	st := storagetest.New()
	deliverer := &recordingDeliverer{}
	w := dispatch.NewDeliveryWorker(st, deliverer)

	n := seedNotification(t, st)

	require.NoError(t, w.Work(context.Background(), makeJob(1, uuid.UUID(n.ID))))
	require.Len(t, deliverer.delivered, 1)
	require.Equal(t, n.ID, deliverer.delivered[0].ID)

	stored, err := st.NotificationByID(context.Background(), n.ID)
	require.NoError(t, err)
	require.True(t, stored.Delivered)
}

func TestDeliveryWorker_Work_MissingNotificationCancels(t *testing.T) {
	st := storagetest.New()
	w := dispatch.NewDeliveryWorker(st, &recordingDeliverer{})

	err := w.Work(context.Background(), makeJob(2, uuid.New()))
	require.Error(t, err)
	var cancelErr *river.JobCancelError
	require.ErrorAs(t, err, &cancelErr)
}

func TestDeliveryWorker_Work_AlreadyDeliveredSkips(t *testing.T) {
	st := storagetest.New()
	deliverer := &recordingDeliverer{}
	w := dispatch.NewDeliveryWorker(st, deliverer)

	n := seedNotification(t, st)
	require.NoError(t, st.MarkNotificationDelivered(context.Background(), n.ID))

	require.NoError(t, w.Work(context.Background(), makeJob(3, uuid.UUID(n.ID))))
	require.Empty(t, deliverer.delivered)
}

func TestDeliveryWorker_Work_DeliveryFailureKeepsUndelivered(t *testing.T) {
	st := storagetest.New()
	deliverer := &recordingDeliverer{err: errors.New("smtp down")}
	w := dispatch.NewDeliveryWorker(st, deliverer)

	n := seedNotification(t, st)

	err := w.Work(context.Background(), makeJob(4, uuid.UUID(n.ID)))
	require.Error(t, err)

	stored, storErr := st.NotificationByID(context.Background(), n.ID)
	require.NoError(t, storErr)
	require.False(t, stored.Delivered)
}
