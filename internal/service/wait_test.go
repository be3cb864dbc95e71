package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/samandr77/microservices/swish/internal/entity"
	"github.com/samandr77/microservices/swish/internal/mocks"
	"github.com/samandr77/microservices/swish/internal/service"
)

func TestWaitForTerminal(t *testing.T) {
	t.Parallel()

	c := mocks.NewMockSwishClient(gomock.NewController(t))

	gomock.InOrder(
		c.EXPECT().PaymentRequest(gomock.Any(), testLocation).
			Return(entity.PaymentRequestState{ID: testID, Status: entity.StatusCreated}, nil),
		c.EXPECT().PaymentRequest(gomock.Any(), testLocation).
			Return(entity.PaymentRequestState{}, entity.ErrConnectivity),
		c.EXPECT().PaymentRequest(gomock.Any(), testLocation).
			Return(entity.PaymentRequestState{ID: testID, Status: entity.StatusPaid}, nil),
	)

	state, err := service.WaitForTerminal(context.Background(), c, testLocation, retry.NewConstant(time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, entity.StatusPaid, state.Status)
}

func TestWaitForTerminal_StopsOnProtocolError(t *testing.T) {
	t.Parallel()

	c := mocks.NewMockSwishClient(gomock.NewController(t))

	c.EXPECT().PaymentRequest(gomock.Any(), testLocation).Return(entity.PaymentRequestState{}, entity.ErrProtocol)

	_, err := service.WaitForTerminal(context.Background(), c, testLocation, retry.NewConstant(time.Millisecond))
	require.ErrorIs(t, err, entity.ErrProtocol)
}

func TestWaitForTerminal_Deadline(t *testing.T) {
	t.Parallel()

	c := mocks.NewMockSwishClient(gomock.NewController(t))

	c.EXPECT().PaymentRequest(gomock.Any(), testLocation).
		Return(entity.PaymentRequestState{ID: testID, Status: entity.StatusCreated}, nil).MinTimes(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	state, err := service.WaitForTerminal(ctx, c, testLocation, service.NewBackoff(5*time.Millisecond, 20*time.Millisecond))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, entity.StatusCreated, state.Status)
}

func TestWaitForTerminal_MaxRetries(t *testing.T) {
	t.Parallel()

	c := mocks.NewMockSwishClient(gomock.NewController(t))

	c.EXPECT().PaymentRequest(gomock.Any(), testLocation).
		Return(entity.PaymentRequestState{ID: testID, Status: entity.StatusCreated}, nil).Times(3)

	b := retry.WithMaxRetries(2, retry.NewConstant(time.Millisecond))

	state, err := service.WaitForTerminal(context.Background(), c, testLocation, b)
	require.Error(t, err)
	require.Equal(t, entity.StatusCreated, state.Status)
}
