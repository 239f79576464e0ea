package handlers

import (
	"errors"
	"testing"

	"github.com/updogjp/infinichess/pkg/api"
)

func TestWithPayload(t *testing.T) {
	var called int
	h := WithPayload(func(ctx Context, msg api.ChatMsg) (Result, error) {
		called++
		return Result{Rebind: ctx.Actor}, nil
	})

	tests := []struct {
		name    string
		msg     api.ClientMessage
		wantErr error
		calls   int
	}{
		{name: "wrong payload type", msg: api.MoveMsg{}, calls: 0},
		{name: "validation fails", msg: api.ChatMsg{Text: "   "}, wantErr: api.ErrEmptyText, calls: 0},
		{name: "valid", msg: api.ChatMsg{Text: "hi"}, calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = 0
			res, err := h(Context{Actor: 7}, tt.msg)
			if called != tt.calls {
				t.Fatalf("handler called %d times, want %d", called, tt.calls)
			}
			if tt.calls == 0 {
				if err == nil {
					t.Fatal("expected an error")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || res.Rebind != 7 {
				t.Errorf("res=%+v err=%v", res, err)
			}
		})
	}
}
