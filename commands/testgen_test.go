package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/vault/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestGenCmd(t *testing.T) {
	dir, err := ioutil.TempDir("", "testgen")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	out := filepath.Join(dir, "out")

	msg := &vaulttest.Msg{RoutePath: "test/msg", Serialized: []byte("payload")}
	examples := []Example{{Filename: "msg", Obj: msg}}
	require.NoError(t, TestGenCmd(examples, []string{out}))

	bin, err := ioutil.ReadFile(filepath.Join(out, "msg.bin"))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), bin)

	js, err := ioutil.ReadFile(filepath.Join(out, "msg.json"))
	require.NoError(t, err)
	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(js, &decoded))
}
