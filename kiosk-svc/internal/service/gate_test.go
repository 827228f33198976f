package service_test

import (
	"context"
	"errors"
	"testing"

	"tableside-ordering/kiosk-svc/internal/domain"
	"tableside-ordering/kiosk-svc/internal/mocks"
	"tableside-ordering/kiosk-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseTableNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{input: "5", expected: 5},
		{input: " 12 ", expected: 12},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "0", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "4.5", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.input, func(t *testing.T) {
			n, err := service.ParseTableNumber(testCase.input)
			if testCase.wantErr {
				var vErr domain.ValidationError
				assert.True(t, errors.As(err, &vErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, n)
		})
	}
}

func TestTableGate_Check(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		branchID     string
		input        string
		prepareMocks func(b *mocks.Backend)
		expected     *service.GateResult
		wantErr      bool
	}{
		{
			name:     "available_with_message",
			branchID: "B1",
			input:    "5",
			prepareMocks: func(b *mocks.Backend) {
				b.On("CheckTable", mock.Anything, 5, "B1").Return(&domain.TableAvailability{IsAvailable: true, Message: "Bàn trống"}, nil).Once()
			},
			expected: &service.GateResult{TableNumber: 5, Available: true, Message: "Bàn trống"},
		},
		{
			name:     "unavailable_message_verbatim",
			branchID: "B1",
			input:    "5",
			prepareMocks: func(b *mocks.Backend) {
				b.On("CheckTable", mock.Anything, 5, "B1").Return(&domain.TableAvailability{IsAvailable: false, Message: "Bàn đang sử dụng"}, nil).Once()
			},
			expected: &service.GateResult{TableNumber: 5, Available: false, Message: "Bàn đang sử dụng"},
		},
		{
			name:     "unavailable_fallback_message",
			branchID: "B1",
			input:    "7",
			prepareMocks: func(b *mocks.Backend) {
				b.On("CheckTable", mock.Anything, 7, "B1").Return(&domain.TableAvailability{IsAvailable: false}, nil).Once()
			},
			expected: &service.GateResult{TableNumber: 7, Available: false, Message: "Bàn không khả dụng, vui lòng chọn bàn khác"},
		},
		{
			name:         "non_numeric_never_calls_backend",
			branchID:     "B1",
			input:        "five",
			prepareMocks: func(b *mocks.Backend) {},
			wantErr:      true,
		},
		{
			name:         "missing_branch",
			branchID:     "",
			input:        "5",
			prepareMocks: func(b *mocks.Backend) {},
			wantErr:      true,
		},
		{
			name:     "backend_error",
			branchID: "B1",
			input:    "5",
			prepareMocks: func(b *mocks.Backend) {
				b.On("CheckTable", mock.Anything, 5, "B1").Return(nil, &domain.BackendError{Status: 404, Message: "Bàn không tồn tại"}).Once()
			},
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			backend := mocks.NewBackend(t)
			testCase.prepareMocks(backend)
			gate := service.NewTableGate(backend)

			result, err := gate.Check(ctx, testCase.branchID, testCase.input)
			if testCase.wantErr {
				assert.Error(t, err)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, result)
		})
	}
}
