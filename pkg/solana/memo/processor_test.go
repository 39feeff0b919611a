package memo

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/scaler-program/pkg/solana/runtime"
	"github.com/code-payments/scaler-program/pkg/testutil"
)

func TestProcess(t *testing.T) {
	log := runtime.NewRecordingLogger()
	p := NewProcessor(log)

	require.NoError(t, p.Process(ProgramKey, nil, []byte("hello")))
	assert.Equal(t, []string{`Memo (len 5): "hello"`}, log.Messages())
}

func TestProcess_Signers(t *testing.T) {
	log := runtime.NewRecordingLogger()
	p := NewProcessor(log)

	key := testutil.GenerateSolanaKeys(t, 1)[0]
	account := runtime.NewAccountInfo(key, nil, 0, nil)

	err := p.Process(ProgramKey, []*runtime.AccountInfo{account}, []byte("hello"))
	assert.True(t, errors.Is(err, runtime.ErrMissingRequiredSignature))
	assert.Empty(t, log.Messages())

	account.IsSigner = true
	require.NoError(t, p.Process(ProgramKey, []*runtime.AccountInfo{account}, []byte("hello")))
	assert.Equal(t, []string{
		fmt.Sprintf("Signed by %s", account),
		`Memo (len 5): "hello"`,
	}, log.Messages())
}

func TestProcess_InvalidUTF8(t *testing.T) {
	log := runtime.NewRecordingLogger()
	p := NewProcessor(log)

	assert.Equal(t, runtime.ErrInvalidInstructionData, p.Process(ProgramKey, nil, []byte{0xff, 0xfe}))
	assert.Equal(t, []string{"Invalid UTF-8"}, log.Messages())

	require.NoError(t, NewProcessor(nil).Process(ProgramKey, nil, nil))
}
