package pairswap_test

import (
	"testing"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
	"github.com/iov-one/pairswap/swaptest"
	"github.com/stretchr/testify/assert"
)

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		tx      pairswap.Tx
		dest    interface{}
		wantErr *errors.Error
		wantMsg interface{}
	}{
		"success": {
			tx:      &swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "test/one"}},
			dest:    &swaptest.Msg{},
			wantMsg: &swaptest.Msg{RoutePath: "test/one"},
		},
		"transaction error": {
			tx:      &swaptest.Tx{Err: errors.ErrEmpty},
			dest:    &swaptest.Msg{},
			wantErr: errors.ErrEmpty,
		},
		"no message": {
			tx:      &swaptest.Tx{},
			dest:    &swaptest.Msg{},
			wantErr: errors.ErrInvalidMsg,
		},
		"destination is not a pointer": {
			tx:      &swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "test/one"}},
			dest:    swaptest.Msg{},
			wantErr: errors.ErrHuman,
		},
		"destination of a different type": {
			tx:      &swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "test/one"}},
			dest:    &swaptest.Tx{},
			wantErr: errors.ErrInvalidType,
		},
		"invalid message": {
			tx:      &swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "test/one", Err: errors.ErrInvalidState}},
			dest:    &swaptest.Msg{},
			wantErr: errors.ErrInvalidState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := pairswap.LoadMsg(tc.tx, tc.dest)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantMsg, tc.dest)
		})
	}
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "test/one", pairswap.GetPath(&swaptest.Tx{Msg: &swaptest.Msg{RoutePath: "test/one"}}))
	assert.Equal(t, "(missing)", pairswap.GetPath(&swaptest.Tx{}))
	assert.True(t, pairswap.ValidPath("escrow/fulfill"))
	assert.False(t, pairswap.ValidPath("escrow fulfill"))
}

func TestMetadataValidate(t *testing.T) {
	var missing *pairswap.Metadata
	assert.True(t, errors.ErrMetadata.Is(missing.Validate()))
	assert.True(t, errors.ErrMetadata.Is((&pairswap.Metadata{}).Validate()))
	assert.True(t, errors.ErrSchema.Is((&pairswap.Metadata{Schema: 2}).Validate()))
	assert.NoError(t, (&pairswap.Metadata{Schema: 1}).Validate())
}
