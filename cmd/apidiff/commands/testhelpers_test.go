package commands

import (
	"bytes"
	"strings"
	"testing"
)

const (
	usersV1 = "../../../loader/testdata/users-v1.yaml"
	usersV2 = "../../../loader/testdata/users-v2.yaml"
)

// testStreams returns streams backed by buffers, with stdin reading from in.
func testStreams(t *testing.T, in string) (streams, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return streams{stdin: strings.NewReader(in), stdout: &stdout, stderr: &stderr}, &stdout, &stderr
}
