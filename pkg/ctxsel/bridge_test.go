package ctxsel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/ctxsel/pkg/vango"
	"github.com/vango-dev/ctxsel/pkg/vdom"
)

func TestBridgeAcrossRoots(t *testing.T) {
	ctx := CreateContext(store{}, WithName("bridged"))

	renders := map[string]int{}
	display := func(id string, bump func(counts) counts) vdom.Component {
		return vdom.Func(func() *vdom.VNode {
			v := UseContextSelector(ctx, func(s store) int { return s.Count1*10 + s.Count2 })
			set := UseContextSelector(ctx, selectSet)
			renders[id]++
			return vdom.Div(
				vdom.Span(vdom.TestID(id), vdom.Textf("%d", v)),
				vdom.Button(vdom.TestID(id+"-inc"), vdom.OnClick(func() { set(bump) })),
			)
		})
	}

	inner := display("b", inc2)
	rootB := vango.NewRoot()
	bridge := vdom.Func(func() *vdom.VNode {
		bv := UseBridgeValue(ctx)
		vango.UseLayoutEffect(func() vango.Cleanup {
			require.NoError(t, rootB.Render(vdom.Func(func() *vdom.VNode {
				return BridgeProvider(ctx, bv, inner)
			})))
			return nil
		}, nil)
		return nil
	})

	rootA := vango.NewRoot()
	require.NoError(t, rootA.Render(storeApp(ctx, display("a", inc1), bridge)))

	check := func(want string) {
		t.Helper()
		a, ok := rootA.FindText("a")
		require.True(t, ok)
		b, ok := rootB.FindText("b")
		require.True(t, ok)
		assert.Equal(t, want, a)
		assert.Equal(t, want, b)
	}
	check("0")

	require.NoError(t, rootA.Click("a-inc"))
	check("10")

	// Updates issued from the second root reach the first one.
	require.NoError(t, rootB.Click("b-inc"))
	check("11")

	assert.Equal(t, 3, renders["a"])
	assert.Equal(t, 3, renders["b"])
}

func TestBridgeValueSnapshot(t *testing.T) {
	ctx := CreateContext("default")

	var zero BridgeValue[string]
	assert.False(t, zero.Valid())
	assert.EqualValues(t, -1, zero.Snapshot().Version)

	var bv BridgeValue[string]
	r := vango.NewRoot()
	require.NoError(t, r.Render(vdom.Func(func() *vdom.VNode {
		return ctx.Provider("hello", vdom.Func(func() *vdom.VNode {
			bv = UseBridgeValue(ctx)
			return nil
		}))
	})))

	require.True(t, bv.Valid())
	assert.Equal(t, VersionedValue[string]{Value: "hello", Version: 0}, bv.Snapshot())
}

func TestBridgeWithoutProviderCarriesDefault(t *testing.T) {
	ctx := CreateContext(7)

	var bv BridgeValue[int]
	r := vango.NewRoot()
	require.NoError(t, r.Render(vdom.Func(func() *vdom.VNode {
		bv = UseBridgeValue(ctx)
		return nil
	})))
	require.True(t, bv.Valid())

	other := vango.NewRoot()
	require.NoError(t, other.Render(vdom.Func(func() *vdom.VNode {
		return BridgeProvider(ctx, bv, vdom.Func(func() *vdom.VNode {
			return vdom.Textf("%d", UseContext(ctx))
		}))
	})))
	assert.Equal(t, "7", other.Text())
}
