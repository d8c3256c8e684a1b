package nats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/capitalize-ai/sales-assistant/internal/model"
	"github.com/capitalize-ai/sales-assistant/internal/store"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

func TestSubjects(t *testing.T) {
	assert.Equal(t, "conv.5511999.log", LogSubject("5511999"))
	assert.Equal(t, "conv.a_b_c_.log", LogSubject("a.b*c>"))
	assert.Equal(t, "salesbot.outbound.user_1", OutboundSubject("user 1"))
}

func TestDecodeInbound(t *testing.T) {
	in, err := decodeInbound([]byte(`{"sender_id":"5511@c.us","text":"oi","is_group":false}`))
	require.NoError(t, err)
	assert.Equal(t, "5511@c.us", in.SenderID)
	assert.Equal(t, "oi", in.Text)

	_, err = decodeInbound([]byte(`{"text":"oi"}`))
	assert.Error(t, err)

	_, err = decodeInbound([]byte(`not json`))
	assert.Error(t, err)
}

type fakePublisher struct {
	published []model.ConversationLog
	err       error
}

func (p *fakePublisher) PublishLog(ctx context.Context, entry *model.ConversationLog) (uint64, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.published = append(p.published, *entry)
	return uint64(len(p.published)), nil
}

func TestLogFanoutMirrorsToPublisher(t *testing.T) {
	mem := store.NewMemory()
	pub := &fakePublisher{}
	f := NewLogFanout(mem, pub, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, f.AppendConversationLog(ctx, &model.ConversationLog{UserID: "u1", Message: "oi", Response: "olá"}))

	logs, err := f.ListConversationLogs(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Len(t, pub.published, 1)
	assert.Equal(t, "oi", pub.published[0].Message)
}

func TestLogFanoutToleratesMirrorFailure(t *testing.T) {
	mem := store.NewMemory()
	f := NewLogFanout(mem, &fakePublisher{err: errors.New("no responders")}, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, f.AppendConversationLog(ctx, &model.ConversationLog{UserID: "u1", Message: "oi"}))

	logs, err := mem.ListConversationLogs(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestOptions(t *testing.T) {
	opts, err := options(Config{URL: "nats://localhost:4222", Token: "s3cret"}, logger.NewNop())
	require.NoError(t, err)
	assert.Len(t, opts, 8)

	_, err = options(Config{CAFile: "/nonexistent/ca.pem", CertFile: "c", KeyFile: "k"}, logger.NewNop())
	assert.Error(t, err)
}

func TestCheckWithoutConnection(t *testing.T) {
	c := &Client{logger: logger.NewNop()}
	assert.ErrorIs(t, c.Check(context.Background()), ErrDisconnected)
}
