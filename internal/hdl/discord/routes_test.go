package discord

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/HiSumm3rs/Bot-IDBL/internal/ctrl"
	"github.com/HiSumm3rs/Bot-IDBL/internal/dto"
	"github.com/HiSumm3rs/Bot-IDBL/internal/hdl"
	"github.com/HiSumm3rs/Bot-IDBL/internal/model"
	"github.com/HiSumm3rs/Bot-IDBL/tests/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestHandler(mctrl ctrl.AppCtrl, resolver UserResolver) *Handler {
	h := &Handler{
		ctrl:     mctrl,
		resolver: resolver,
		prefix:   "!",
	}
	h.registerRoutes()
	return h
}

func TestDispatch_UnknownCommandIsIgnored(t *testing.T) {
	mock := gomock.NewController(t)
	defer mock.Finish()

	h := newTestHandler(mocks.NewMockAppCtrl(mock), mocks.NewMockUserResolver(mock))
	res := h.Dispatch(context.Background(), &Command{Name: "dance", UserID: "1"})
	assert.Nil(t, res)
}

func TestDispatch_AdminGate(t *testing.T) {
	mock := gomock.NewController(t)
	defer mock.Finish()

	// no EXPECTs: a denied command must never reach the controller
	mctrl := mocks.NewMockAppCtrl(mock)
	h := newTestHandler(mctrl, mocks.NewMockUserResolver(mock))

	for _, name := range []string{"grant", "revoke", "add-item"} {
		t.Run(
			name, func(t *testing.T) {
				res := h.Dispatch(
					context.Background(), &Command{
						Name:    name,
						Args:    []string{"<@1>", "10"},
						UserID:  "1",
						IsAdmin: false,
					},
				)
				require.NotNil(t, res)
				assert.Equal(t, "⛔ Permission Denied", res.Title)
				assert.Equal(t, dto.ColorError, res.Color)
			},
		)
	}
}

func TestHandler_Balance(t *testing.T) {
	mock := gomock.NewController(t)
	defer mock.Finish()

	mctrl := mocks.NewMockAppCtrl(mock)
	h := newTestHandler(mctrl, mocks.NewMockUserResolver(mock))

	cmd := &Command{Name: "balance", UserID: "42", Username: "alice"}

	mctrl.EXPECT().Balance(gomock.Any(), "42").Return(130, nil).Times(1)
	res := h.Dispatch(context.Background(), cmd)
	require.NotNil(t, res)
	assert.Equal(t, "💰 Your Balance", res.Title)
	assert.Contains(t, res.Body, "130")
	assert.Equal(t, dto.ColorSuccess, res.Color)

	mctrl.EXPECT().Balance(gomock.Any(), "42").Return(0, errors.New("test-err")).Times(1)
	res = h.Dispatch(context.Background(), cmd)
	require.NotNil(t, res)
	assert.Equal(t, hdl.ErrInternal.Error(), res.Body)
}

func TestHandler_Shop(t *testing.T) {
	mock := gomock.NewController(t)
	defer mock.Finish()

	mctrl := mocks.NewMockAppCtrl(mock)
	h := newTestHandler(mctrl, mocks.NewMockUserResolver(mock))

	cmd := &Command{Name: "shop", UserID: "42"}

	mctrl.EXPECT().ListShop(gomock.Any()).Return([]dto.ShopEntry{}, nil).Times(1)
	res := h.Dispatch(context.Background(), cmd)
	require.NotNil(t, res)
	assert.Equal(t, "The shop is empty!", res.Body)
	assert.Equal(t, dto.ColorError, res.Color)

	mctrl.EXPECT().ListShop(gomock.Any()).Return(
		[]dto.ShopEntry{
			{Position: 1, Name: "Sword", Price: 50, Description: "Sharp"},
		}, nil,
	).Times(1)
	res = h.Dispatch(context.Background(), cmd)
	require.NotNil(t, res)
	require.Len(t, res.Fields, 1)
	assert.Equal(t, "ID: 1 - Sword", res.Fields[0].Name)
	assert.Contains(t, res.Fields[0].Value, "50 tokens")
}

func TestHandler_Buy(t *testing.T) {
	mock := gomock.NewController(t)
	defer mock.Finish()

	mctrl := mocks.NewMockAppCtrl(mock)
	h := newTestHandler(mctrl, mocks.NewMockUserResolver(mock))

	tests := []struct {
		name         string
		args         []string
		mockExpect   func()
		expectedResp func(*testing.T, *dto.Payload)
	}{
		{
			name:       "MissingArg",
			args:       nil,
			mockExpect: func() {},
			expectedResp: func(t *testing.T, res *dto.Payload) {
				assert.Equal(t, dto.ColorError, res.Color)
			},
		},
		{
			name:       "NotANumber",
			args:       []string{"sword"},
			mockExpect: func() {},
			expectedResp: func(t *testing.T, res *dto.Payload) {
				assert.Equal(t, dto.ColorError, res.Color)
			},
		},
		{
			name: "InvalidItem",
			args: []string{"9"},
			mockExpect: func() {
				mctrl.EXPECT().Purchase(
					gomock.Any(), "42", "alice", 9,
				).Return(nil, ctrl.ErrItemNotFound).Times(1)
			},
			expectedResp: func(t *testing.T, res *dto.Payload) {
				assert.Equal(t, "Invalid item ID!", res.Body)
			},
		},
		{
			name: "InsufficientFunds",
			args: []string{"1"},
			mockExpect: func() {
				mctrl.EXPECT().Purchase(
					gomock.Any(), "42", "alice", 1,
				).Return(nil, &ctrl.InsufficientFundsError{Required: 50}).Times(1)
			},
			expectedResp: func(t *testing.T, res *dto.Payload) {
				assert.Contains(t, res.Body, "You need 50 tokens")
			},
		},
		{
			name: "Success",
			args: []string{"1"},
			mockExpect: func() {
				mctrl.EXPECT().Purchase(
					gomock.Any(), "42", "alice", 1,
				).Return(&model.PurchaseRecord{Item: "Sword", Price: 40}, nil).Times(1)
			},
			expectedResp: func(t *testing.T, res *dto.Payload) {
				assert.Equal(t, "✅ Purchase Complete!", res.Title)
				assert.Contains(t, res.Body, "**Sword**")
				assert.Equal(t, dto.ColorSuccess, res.Color)
			},
		},
	}

	for _, tt := range tests {
		t.Run(
			tt.name, func(t *testing.T) {
				tt.mockExpect()
				res := h.Dispatch(
					context.Background(), &Command{
						Name: "buy", Args: tt.args, UserID: "42", Username: "alice",
					},
				)
				require.NotNil(t, res)
				tt.expectedResp(t, res)
			},
		)
	}
}

func TestHandler_Ranking(t *testing.T) {
	mock := gomock.NewController(t)
	defer mock.Finish()

	mctrl := mocks.NewMockAppCtrl(mock)
	mres := mocks.NewMockUserResolver(mock)
	h := newTestHandler(mctrl, mres)

	cmd := &Command{Name: "ranking", UserID: "1"}

	mctrl.EXPECT().Ranking(gomock.Any()).Return([]dto.RankEntry{}, nil).Times(1)
	res := h.Dispatch(context.Background(), cmd)
	require.NotNil(t, res)
	assert.Equal(t, "No users found!", res.Body)

	// 12 entries: only the top 10 are resolved, and a failed resolution is
	// skipped without aborting the rest
	entries := make([]dto.RankEntry, 0, 12)
	for i := 0; i < 12; i++ {
		entries = append(
			entries, dto.RankEntry{UserID: fmt.Sprintf("u%d", i), Tokens: 120 - i},
		)
	}
	mctrl.EXPECT().Ranking(gomock.Any()).Return(entries, nil).Times(1)
	for i := 0; i < 10; i++ {
		if i == 3 {
			mres.EXPECT().ResolveDisplayName(
				gomock.Any(), "u3",
			).Return("", errors.New("unknown user")).Times(1)
			continue
		}
		mres.EXPECT().ResolveDisplayName(
			gomock.Any(), fmt.Sprintf("u%d", i),
		).Return(fmt.Sprintf("name%d", i), nil).Times(1)
	}

	res = h.Dispatch(context.Background(), cmd)
	require.NotNil(t, res)
	assert.Equal(t, "🏆 Token Ranking", res.Title)
	require.Len(t, res.Fields, 9)
	assert.Equal(t, "#1", res.Fields[0].Name)
	assert.Equal(t, "name0: 120 tokens", res.Fields[0].Value)
	// the skipped entry leaves a gap in the places
	assert.Equal(t, "#5", res.Fields[3].Name)
}

func TestHandler_History(t *testing.T) {
	mock := gomock.NewController(t)
	defer mock.Finish()

	mctrl := mocks.NewMockAppCtrl(mock)
	h := newTestHandler(mctrl, mocks.NewMockUserResolver(mock))

	cmd := &Command{Name: "history", UserID: "42", Username: "alice"}

	mctrl.EXPECT().History(gomock.Any(), "alice").Return(nil, nil).Times(1)
	res := h.Dispatch(context.Background(), cmd)
	require.NotNil(t, res)
	assert.Equal(t, "You haven't made any purchases yet!", res.Body)

	records := make([]model.PurchaseRecord, 0, 12)
	for i := 0; i < 12; i++ {
		records = append(
			records, model.PurchaseRecord{
				Buyer: "alice", Item: fmt.Sprintf("item%d", i), Price: i,
			},
		)
	}
	mctrl.EXPECT().History(gomock.Any(), "alice").Return(records, nil).Times(1)

	res = h.Dispatch(context.Background(), cmd)
	require.NotNil(t, res)
	require.Len(t, res.Fields, 10)
	// last 10, oldest first
	assert.Equal(t, "item2", res.Fields[0].Name)
	assert.Equal(t, "item11", res.Fields[9].Name)
}

func TestHandler_Grant(t *testing.T) {
	mock := gomock.NewController(t)
	defer mock.Finish()

	mctrl := mocks.NewMockAppCtrl(mock)
	h := newTestHandler(mctrl, mocks.NewMockUserResolver(mock))

	res := h.Dispatch(
		context.Background(), &Command{
			Name: "grant", Args: []string{"alice", "10"}, UserID: "1", IsAdmin: true,
		},
	)
	require.NotNil(t, res)
	assert.Equal(t, dto.ColorError, res.Color)

	mctrl.EXPECT().Grant(gomock.Any(), "123", 20).Return(20, nil).Times(1)
	res = h.Dispatch(
		context.Background(), &Command{
			Name: "grant", Args: []string{"<@123>", "20"}, UserID: "1", IsAdmin: true,
		},
	)
	require.NotNil(t, res)
	assert.Equal(t, "✅ Tokens Granted!", res.Title)
	assert.Contains(t, res.Body, "<@123>")
}

func TestHandler_Revoke(t *testing.T) {
	mock := gomock.NewController(t)
	defer mock.Finish()

	mctrl := mocks.NewMockAppCtrl(mock)
	h := newTestHandler(mctrl, mocks.NewMockUserResolver(mock))

	mctrl.EXPECT().Revoke(gomock.Any(), "123", 25).Return(
		0, &ctrl.InsufficientBalanceError{Current: 20},
	).Times(1)
	res := h.Dispatch(
		context.Background(), &Command{
			Name: "revoke", Args: []string{"<@123>", "25"}, UserID: "1", IsAdmin: true,
		},
	)
	require.NotNil(t, res)
	assert.Equal(t, "<@123> only has 20 tokens!", res.Body)

	mctrl.EXPECT().Revoke(gomock.Any(), "123", 5).Return(15, nil).Times(1)
	res = h.Dispatch(
		context.Background(), &Command{
			Name: "revoke", Args: []string{"<@123>", "5"}, UserID: "1", IsAdmin: true,
		},
	)
	require.NotNil(t, res)
	assert.Equal(t, "✅ Tokens Revoked!", res.Title)
	assert.Equal(t, dto.ColorWarn, res.Color)
}

func TestHandler_AddItem(t *testing.T) {
	mock := gomock.NewController(t)
	defer mock.Finish()

	mctrl := mocks.NewMockAppCtrl(mock)
	h := newTestHandler(mctrl, mocks.NewMockUserResolver(mock))

	// malformed payload never reaches the controller
	res := h.Dispatch(
		context.Background(), &Command{
			Name:    "add-item",
			Args:    []string{"50", "Sword", "Sharp"},
			RawArgs: "50 Sword Sharp",
			UserID:  "1",
			IsAdmin: true,
		},
	)
	require.NotNil(t, res)
	assert.Equal(t, dto.ColorError, res.Color)

	mctrl.EXPECT().AddItem(gomock.Any(), "Sword", 50, "Sharp blade").Return(1, nil).Times(1)
	res = h.Dispatch(
		context.Background(), &Command{
			Name:    "add-item",
			Args:    []string{"50", "Sword", "|", "Sharp", "blade"},
			RawArgs: "50 Sword | Sharp blade",
			UserID:  "1",
			IsAdmin: true,
		},
	)
	require.NotNil(t, res)
	assert.Equal(t, "✅ Item Added!", res.Title)
	assert.Contains(t, res.Body, "**Sword**")
}
