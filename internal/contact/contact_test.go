package contact

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Zachkp/portfolio/internal/clock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func validPayload() Payload {
	return Payload{Name: "Ada", Email: "ada@example.com", Message: "Hello there, nice portfolio!"}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		p      Payload
		fields []string
	}{
		{"valid", validPayload(), nil},
		{"short name", Payload{Name: "A", Email: "a@b.co", Message: "0123456789"}, []string{"name"}},
		{"bad email", Payload{Name: "Ada", Email: "ada@example", Message: "0123456789"}, []string{"email"}},
		{"short message", Payload{Name: "Ada", Email: "a@b.co", Message: "too short"}, []string{"message"}},
		{"empty", Payload{}, []string{"name", "email", "message"}},
		{"whitespace only", Payload{Name: "  ", Email: " ", Message: "          "}, []string{"name", "email", "message"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.p.Validate()
			assert.Len(t, errs, len(tt.fields))
			for _, f := range tt.fields {
				assert.True(t, errs.Has(f), f)
			}
		})
	}
}

func TestNormalizeKeepsAngleBrackets(t *testing.T) {
	msg := "Is a<b && c>d true? Reply to <me@example.com> please"
	p := Payload{Name: "  <b>Ada</b> ", Message: "  " + msg + "\n"}.Normalize()
	assert.Equal(t, "<b>Ada</b>", p.Name)
	assert.Equal(t, msg, p.Message)

	p = Payload{Name: "Ada", Email: "ada@example.com", Message: "<question about the role>"}.Normalize()
	assert.Empty(t, p.Validate())
}

type failingSubmitter struct{ err error }

func (f failingSubmitter) Submit(context.Context, Payload) error { return f.err }

func TestFormSuccessClearsFieldsAndHidesStatus(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	f := NewForm(Simulated{Delay: 0, Clock: fake}, fake)
	defer f.Close()
	require.NoError(t, f.Set(validPayload()))

	done := make(chan error, 1)
	go func() { done <- f.Submit(context.Background()) }()
	require.Eventually(t, func() bool { return fake.Pending() == 1 }, time.Second, time.Millisecond)
	fake.Advance(0)
	require.NoError(t, <-done)

	assert.True(t, f.Values().IsZero())
	assert.Equal(t, StatusSuccess, f.Status().Kind)
	assert.False(t, f.SubmitDisabled())

	fake.Advance(StatusHideAfter)
	assert.Equal(t, Status{}, f.Status())
}

func TestFormRejectsConcurrentSubmission(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	f := NewForm(Simulated{Delay: DefaultSimulatedDelay, Clock: fake}, fake)
	defer f.Close()

	done := make(chan error, 1)
	go func() { done <- f.SubmitWith(context.Background(), validPayload()) }()
	require.Eventually(t, func() bool { return fake.Pending() == 1 }, time.Second, time.Millisecond)

	assert.True(t, f.SubmitDisabled())
	assert.Equal(t, Status{Kind: StatusInfo, Message: msgSending}, f.Status())
	assert.ErrorIs(t, f.Submit(context.Background()), ErrSubmissionPending)
	assert.ErrorIs(t, f.Set(Payload{Name: "other"}), ErrSubmissionPending)

	fake.Advance(DefaultSimulatedDelay - time.Millisecond)
	select {
	case <-done:
		t.Fatal("submission resolved before its delay")
	default:
	}
	fake.Advance(time.Millisecond)
	require.NoError(t, <-done)
	assert.False(t, f.SubmitDisabled())
}

func TestFormFailurePreservesValues(t *testing.T) {
	boom := errors.New("smtp down")
	f := NewForm(failingSubmitter{err: boom}, clock.NewFake(time.Unix(0, 0)))
	defer f.Close()

	err := f.SubmitWith(context.Background(), validPayload())
	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, validPayload(), f.Values())
	assert.Equal(t, StatusError, f.Status().Kind)
	assert.False(t, f.SubmitDisabled())
}

func TestFormInvalidDoesNotSubmit(t *testing.T) {
	called := false
	f := NewForm(submitFunc(func(context.Context, Payload) error { called = true; return nil }), nil)
	defer f.Close()

	err := f.SubmitWith(context.Background(), Payload{Name: "A"})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.False(t, called)
	assert.Equal(t, Status{Kind: StatusError, Message: msgInvalid}, f.Status())
	assert.True(t, f.FieldErrors().Has("email"))
	assert.Equal(t, "A", f.Values().Name)
}

type submitFunc func(context.Context, Payload) error

func (s submitFunc) Submit(ctx context.Context, p Payload) error { return s(ctx, p) }

func TestSimulatedHonorsCancellation(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Simulated{Delay: time.Hour, Clock: fake}.Submit(ctx, validPayload())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fake.Pending())
}

func TestMailer(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		err := Mailer{}.Submit(context.Background(), validPayload())
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("sends composed message", func(t *testing.T) {
		var gotAddr string
		var gotMsg []byte
		m := Mailer{
			Config: SMTPConfig{Host: "mail.test", Port: "2525", User: "me@test", Pass: "pw", To: "inbox@test"},
			Send: func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
				gotAddr, gotMsg = addr, msg
				assert.Equal(t, "me@test", from)
				assert.Equal(t, []string{"inbox@test"}, to)
				return nil
			},
		}
		p := validPayload()
		p.Name = "Ada\r\nBcc: evil@test"
		require.NoError(t, m.Submit(context.Background(), p))

		assert.Equal(t, "mail.test:2525", gotAddr)
		msg := string(gotMsg)
		assert.Contains(t, msg, "Reply-To: ada@example.com\r\n")
		assert.Contains(t, msg, "Subject: Portfolio Contact: Ada  Bcc: evil@test\r\n")
		assert.False(t, strings.Contains(msg, "\r\nBcc:"))
	})
}

func TestDeskOneSubmissionPerClient(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	d := NewDesk(Simulated{Delay: time.Second, Clock: fake}, fake, nil)
	defer d.Close()

	type outcome struct {
		res Result
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		res, err := d.Submit(context.Background(), "client-a", validPayload())
		first <- outcome{res, err}
	}()
	require.Eventually(t, func() bool { return d.Pending() == 1 }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return fake.Pending() == 1 }, time.Second, time.Millisecond)

	res, err := d.Submit(context.Background(), "client-a", validPayload())
	assert.ErrorIs(t, err, ErrSubmissionPending)
	assert.Equal(t, validPayload(), res.Values)

	// Another client is independent.
	res, err = d.Submit(context.Background(), "client-b", Payload{Name: "B"})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, "B", res.Values.Name)

	fake.Advance(time.Second)
	out := <-first
	require.NoError(t, out.err)
	assert.NotEmpty(t, out.res.ID)
	assert.Equal(t, StatusSuccess, out.res.Status.Kind)
	assert.True(t, out.res.Values.IsZero())
	assert.Zero(t, d.Pending())
	assert.Zero(t, fake.Pending(), "released forms must not leave status timers behind")
}

func TestNormalizeKeepsPlainText(t *testing.T) {
	p := Payload{Name: "Tom O'Brien & Co"}.Normalize()
	assert.Equal(t, "Tom O'Brien & Co", p.Name)
}

type countingSubmitter struct {
	current, max atomic.Int32
}

func (c *countingSubmitter) Submit(context.Context, Payload) error {
	n := c.current.Add(1)
	defer c.current.Add(-1)
	for {
		m := c.max.Load()
		if n <= m || c.max.CompareAndSwap(m, n) {
			break
		}
	}
	time.Sleep(10 * time.Microsecond)
	return nil
}

func TestDeskNeverRunsTwoSubmissionsForOneClient(t *testing.T) {
	sub := &countingSubmitter{}
	d := NewDesk(sub, clock.Real(), nil)
	defer d.Close()

	var wg sync.WaitGroup
	var sent, pending atomic.Int32
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, err := d.Submit(context.Background(), "same-client", validPayload())
				switch {
				case err == nil:
					sent.Add(1)
				case errors.Is(err, ErrSubmissionPending):
					pending.Add(1)
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), sub.max.Load(), "max concurrent submissions for one client")
	assert.Equal(t, int32(16*200), sent.Load()+pending.Load())
	assert.Positive(t, sent.Load())
	assert.Zero(t, d.Pending())
}

func TestDeskRejectsAfterClose(t *testing.T) {
	d := NewDesk(Simulated{Clock: clock.Real()}, clock.Real(), nil)
	d.Close()

	res, err := d.Submit(context.Background(), "client-a", validPayload())
	assert.ErrorIs(t, err, ErrDeskClosed)
	assert.Equal(t, StatusError, res.Status.Kind)
	assert.Equal(t, validPayload(), res.Values)
}
