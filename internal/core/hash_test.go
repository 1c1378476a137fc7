package core

import "testing"

import "github.com/stretchr/testify/assert"

func TestComputeBodyHash_LineEndingNormalization(t *testing.T) {
	a := "func f() {\r\n  return 1\r\n}"
	b := "func f() {\n  return 1\n}"
	assert.Equal(t, ComputeBodyHash(a), ComputeBodyHash(b), "CRLF and LF bodies must hash equal")
}

func TestComputeBodyHash_Deterministic(t *testing.T) {
	body := "func f() { return 1 }"
	assert.Equal(t, ComputeBodyHash(body), ComputeBodyHash(body))
}

func TestComputeBodyHash_DifferentBodiesDiffer(t *testing.T) {
	assert.NotEqual(t, ComputeBodyHash("a"), ComputeBodyHash("b"))
}

func TestSignature_Equal(t *testing.T) {
	a := Signature{Name: "f", Params: []string{"int", "string"}, ReturnType: "bool"}
	b := Signature{Name: "f", Params: []string{"int", "string"}, ReturnType: "bool"}
	c := Signature{Name: "f", Params: []string{"int"}, ReturnType: "bool"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
