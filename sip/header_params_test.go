package sip

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderParamsToStringRoundTripsPerSeparator(t *testing.T) {
	hp := NewParams()
	hp.Add("tag", "aaa")
	hp.Add("branch", "bbb")

	for _, sep := range []uint8{';', '&', '?'} {
		str := hp.ToString(sep)
		arr := strings.Split(str, string(sep))
		assert.Equal(t, strings.Join(arr, string(sep)), str)
	}
}

func TestHeaderParamsGetFoldIsCaseInsensitive(t *testing.T) {
	hp := NewParams()
	hp.Add("Transport", "TCP")

	v, ok := hp.GetFold("transport")
	require.True(t, ok)
	assert.Equal(t, "TCP", v)

	_, ok = hp.Get("transport")
	assert.False(t, ok, "Get must stay case-sensitive; GetFold is the case-insensitive lookup")
}

func TestHeaderParamsAddRemove(t *testing.T) {
	hp := NewParams()
	hp = hp.Add("branch", "assadkjkgeijdas")
	hp = hp.Add("received", "127.0.0.1")
	hp = hp.Add("toremove", "removeme")
	hp = hp.Remove("toremove")

	v, exists := hp.Get("received")
	require.True(t, exists)
	assert.Equal(t, "127.0.0.1", v)
	assert.False(t, hp.Has("toremove"))

	s := hp.ToString(';')
	assert.True(t, s == "branch=assadkjkgeijdas;received=127.0.0.1" || s == "received=127.0.0.1;branch=assadkjkgeijdas")
}

func TestHeaderParamsEqualsIgnoresOrder(t *testing.T) {
	a := NewParams()
	a.Add("lr", "")
	a.Add("transport", "tcp")

	b := NewParams()
	b.Add("transport", "tcp")
	b.Add("lr", "")

	assert.True(t, a.Equals(b))
}

func BenchmarkHeaderParamsAddGetRemove(b *testing.B) {
	for i := 0; i < b.N; i++ {
		hp := NewParams()
		hp = hp.Add("branch", "assadkjkgeijdas")
		hp = hp.Add("received", "127.0.0.1")
		hp = hp.Add("toremove", "removeme")
		hp = hp.Remove("toremove")

		if _, exists := hp.Get("received"); !exists {
			b.Fatal("received does not exist")
		}
		if hp.ToString(';') == "" {
			b.Fatal("params empty")
		}
	}
}
