package component

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mixer/internal/bundler"
	"github.com/roach88/mixer/internal/deps"
	"github.com/roach88/mixer/internal/event"
)

// probe is a test component implementing every hook and recording calls.
type probe struct {
	Base
	names    []string
	passive  bool
	deps     []string
	reload   bool
	rules    []bundler.Rule
	plugins  []bundler.Plugin
	fragment bundler.Fragment
	regErr   error
	bootErr  error

	log  *[]string
	args [][]any
}

func (p *probe) Names() []string { return p.names }
func (p *probe) Passive() bool   { return p.passive }

func (p *probe) Register(args ...any) error {
	p.args = append(p.args, args)
	*p.log = append(*p.log, p.names[0]+":register")
	return p.regErr
}

func (p *probe) Dependencies(ctx context.Context) ([]string, error) {
	*p.log = append(*p.log, p.names[0]+":deps")
	return p.deps, nil
}

func (p *probe) RequiresReload() bool { return p.reload }

func (p *probe) Boot(ctx context.Context) error {
	*p.log = append(*p.log, p.names[0]+":boot")
	return p.bootErr
}

func (p *probe) ConfigFragment(ctx context.Context) (bundler.Fragment, error) {
	return p.fragment, nil
}

func (p *probe) Entry(ctx context.Context, entry *bundler.Entry) error {
	*p.log = append(*p.log, p.names[0]+":entry")
	entry.Add(p.names[0], "resources/"+p.names[0]+".js")
	return nil
}

func (p *probe) Rules(ctx context.Context) ([]bundler.Rule, error) {
	*p.log = append(*p.log, p.names[0]+":rules")
	return p.rules, nil
}

func (p *probe) Plugins(ctx context.Context) ([]bundler.Plugin, error) {
	*p.log = append(*p.log, p.names[0]+":plugins")
	return p.plugins, nil
}

func (p *probe) ConfigReady(ctx context.Context, cfg *bundler.Config) error {
	*p.log = append(*p.log, p.names[0]+":configReady")
	return nil
}

// bare implements no hooks at all.
type bare struct{}

func (bare) Names() []string { return nil }

func newRegistry() (*Registry, *event.Dispatcher) {
	d := event.NewDispatcher()
	return NewRegistry(d, nil), d
}

func fireAll(t *testing.T, d *event.Dispatcher) (*bundler.Entry, []bundler.Rule, []bundler.Plugin) {
	t.Helper()
	ctx := context.Background()
	entry := bundler.NewEntry()
	rules := []bundler.Rule{}
	plugins := []bundler.Plugin{}
	cfg := bundler.Config{}

	require.NoError(t, d.Fire(ctx, event.LoadingEntry, entry))
	require.NoError(t, d.Fire(ctx, event.LoadingRules, &rules))
	require.NoError(t, d.Fire(ctx, event.LoadingPlugins, &plugins))
	require.NoError(t, d.Fire(ctx, event.ConfigReady, &cfg))
	return entry, rules, plugins
}

func TestRegistry_InstallPublishesVerbs(t *testing.T) {
	r, _ := newRegistry()
	var log []string

	verbs, err := r.Install(&probe{names: []string{"sass", "less"}, log: &log})
	require.NoError(t, err)

	assert.Len(t, verbs, 2)
	assert.Contains(t, verbs, "sass")
	assert.Contains(t, verbs, "less")
	assert.Equal(t, []string{"less", "sass"}, r.VerbNames())
	assert.Empty(t, log, "non-passive install must not register")
}

func TestRegistry_VerbCallActivates(t *testing.T) {
	r, _ := newRegistry()
	var log []string
	p := &probe{names: []string{"sass", "less"}, log: &log}

	_, err := r.Install(p)
	require.NoError(t, err)
	assert.False(t, r.isActivated(p))

	require.NoError(t, r.Call("less", "app.less", "public/css"))

	assert.True(t, r.isActivated(p))
	assert.Equal(t, "less", p.Caller())
	assert.Equal(t, [][]any{{"app.less", "public/css"}}, p.args)

	records := r.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "less", records[0].Verb)
	assert.Equal(t, "sass|less", records[0].Component)
	assert.Equal(t, []any{"app.less", "public/css"}, records[0].Args)
	assert.Equal(t, int64(1), records[0].Seq)
}

func TestRegistry_RegisterErrorDoesNotActivate(t *testing.T) {
	r, _ := newRegistry()
	var log []string
	bad := errors.New("expected a source path")
	p := &probe{names: []string{"js"}, log: &log, regErr: bad}

	_, err := r.Install(p)
	require.NoError(t, err)

	err = r.Call("js")
	require.Error(t, err)
	assert.ErrorIs(t, err, bad)
	assert.False(t, r.isActivated(p))
}

func TestRegistry_UnknownVerb(t *testing.T) {
	r, _ := newRegistry()
	err := r.Call("browserSync")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownVerb)
	assert.False(t, r.Has("browserSync"))
}

func TestRegistry_PassiveActivatedOnceAtInstall(t *testing.T) {
	r, _ := newRegistry()
	var log []string
	p := &probe{names: []string{"notifications"}, passive: true, log: &log}

	_, err := r.Install(p)
	require.NoError(t, err)

	assert.Equal(t, []string{"notifications:register"}, log)
	require.Len(t, p.args, 1)
	assert.Empty(t, p.args[0], "passive verb is called with no arguments")
	assert.True(t, r.isActivated(p))
	require.Len(t, r.Records(), 1)
}

func TestRegistry_NonActivatedComponentHooksNeverFire(t *testing.T) {
	r, d := newRegistry()
	var log []string
	p := &probe{
		names:   []string{"vue"},
		deps:    []string{"vue-loader"},
		rules:   []bundler.Rule{{Test: `\.vue$`}},
		plugins: []bundler.Plugin{{Name: "VueLoaderPlugin"}},
		log:     &log,
	}
	_, err := r.Install(p)
	require.NoError(t, err)

	ctx := context.Background()
	q := deps.NewQueue()
	require.NoError(t, d.Fire(ctx, event.GatherDependencies, q))
	require.NoError(t, d.Fire(ctx, event.Init, nil))
	entry, rules, plugins := fireAll(t, d)

	assert.Empty(t, log)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, entry.Len())
	assert.Empty(t, rules)
	assert.Empty(t, plugins)
}

func TestRegistry_NotificationsAndVueScenario(t *testing.T) {
	r, d := newRegistry()
	var log []string

	_, err := r.Install(&probe{names: []string{"notifications"}, passive: true, log: &log})
	require.NoError(t, err)
	_, err = r.Install(&probe{names: []string{"vue"}, log: &log})
	require.NoError(t, err)

	log = nil
	require.NoError(t, d.Fire(context.Background(), event.Init, nil))

	assert.Equal(t, []string{"notifications:boot"}, log)
}

func TestRegistry_ContributionHooksOnlyAfterInit(t *testing.T) {
	r, d := newRegistry()
	var log []string
	p := &probe{
		names: []string{"js"},
		rules: []bundler.Rule{{Test: `\.jsx?$`}},
		log:   &log,
	}
	_, err := r.Install(p)
	require.NoError(t, err)
	require.NoError(t, r.Call("js"))

	log = nil
	_, rules, _ := fireAll(t, d)
	assert.Empty(t, log, "contribution hooks are not wired before init")
	assert.Empty(t, rules)

	require.NoError(t, d.Fire(context.Background(), event.Init, nil))
	entry, rules, _ := fireAll(t, d)

	assert.Equal(t, []string{"js:boot", "js:entry", "js:rules", "js:plugins", "js:configReady"}, log)
	assert.Equal(t, []string{"js"}, entry.Names())
	assert.Len(t, rules, 1)
}

func TestRegistry_RulesConcatenateInRegistrationOrder(t *testing.T) {
	r, d := newRegistry()
	var log []string

	css := &probe{names: []string{"css"}, rules: []bundler.Rule{{Test: `\.css$`}}, log: &log}
	vue := &probe{names: []string{"vue"}, rules: []bundler.Rule{{Test: `\.vue$`}, {Test: `\.vue\.html$`}}, log: &log}
	_, err := r.Install(css)
	require.NoError(t, err)
	_, err = r.Install(vue)
	require.NoError(t, err)

	// Activation order differs from install order; rules follow listener
	// registration (install) order.
	require.NoError(t, r.Call("vue"))
	require.NoError(t, r.Call("css"))
	require.NoError(t, d.Fire(context.Background(), event.Init, nil))

	rules := []bundler.Rule{}
	require.NoError(t, d.Fire(context.Background(), event.LoadingRules, &rules))

	require.Len(t, rules, 3)
	assert.Equal(t, `\.css$`, rules[0].Test)
	assert.Equal(t, `\.vue$`, rules[1].Test)
	assert.Equal(t, `\.vue\.html$`, rules[2].Test)
}

func TestRegistry_GatherDependencies(t *testing.T) {
	r, d := newRegistry()
	var log []string

	_, err := r.Install(&probe{names: []string{"vue"}, deps: []string{"vue-loader@^16", "vue"}, reload: true, log: &log})
	require.NoError(t, err)
	_, err = r.Install(&probe{names: []string{"react"}, deps: []string{"vue"}, log: &log})
	require.NoError(t, err)

	require.NoError(t, r.Call("vue"))
	require.NoError(t, r.Call("react"))

	q := deps.NewQueue()
	require.NoError(t, d.Fire(context.Background(), event.GatherDependencies, q))

	items := q.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "vue-loader@^16", items[0].Spec)
	assert.True(t, items[1].RequiresReload, "reload flag retained from the first contributor")
}

func TestRegistry_GatherDependenciesWrongPayload(t *testing.T) {
	r, d := newRegistry()
	var log []string
	_, err := r.Install(&probe{names: []string{"vue"}, deps: []string{"vue"}, log: &log})
	require.NoError(t, err)
	require.NoError(t, r.Call("vue"))

	err = d.Fire(context.Background(), event.GatherDependencies, "not a queue")
	require.Error(t, err)
	var pe *PayloadError
	assert.ErrorAs(t, err, &pe)
}

func TestRegistry_BootErrorAbortsInit(t *testing.T) {
	r, d := newRegistry()
	var log []string
	bad := errors.New("no config")

	_, err := r.Install(&probe{names: []string{"a"}, bootErr: bad, log: &log})
	require.NoError(t, err)
	_, err = r.Install(&probe{names: []string{"b"}, log: &log})
	require.NoError(t, err)
	require.NoError(t, r.Call("a"))
	require.NoError(t, r.Call("b"))

	log = nil
	err = d.Fire(context.Background(), event.Init, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, bad)
	assert.Equal(t, []string{"a:boot"}, log)
}

func TestRegistry_FragmentsMergeWithArrayConcat(t *testing.T) {
	r, d := newRegistry()
	var log []string

	_, err := r.Install(&probe{names: []string{"a"}, passive: true, log: &log,
		fragment: bundler.Fragment{"resolve": map[string]any{"extensions": []any{".js"}}}})
	require.NoError(t, err)
	_, err = r.Install(&probe{names: []string{"b"}, passive: true, log: &log,
		fragment: bundler.Fragment{"resolve": map[string]any{"extensions": []any{".vue"}}}})
	require.NoError(t, err)

	require.NoError(t, d.Fire(context.Background(), event.Init, nil))

	frag := r.Fragment()
	assert.Equal(t, []any{".js", ".vue"}, frag["resolve"].(map[string]any)["extensions"])
}

func TestRegistry_InitTwiceDoesNotDoubleWire(t *testing.T) {
	r, d := newRegistry()
	var log []string
	_, err := r.Install(&probe{names: []string{"js"}, passive: true, log: &log})
	require.NoError(t, err)

	require.NoError(t, d.Fire(context.Background(), event.Init, nil))
	require.NoError(t, d.Fire(context.Background(), event.Init, nil))

	assert.Equal(t, 1, d.Count(event.LoadingRules))
}

func TestRegistry_MalformedComponentContributesNothing(t *testing.T) {
	r, d := newRegistry()

	verbs, err := r.Install(bare{})
	require.NoError(t, err)
	assert.Empty(t, verbs)

	require.NoError(t, d.Fire(context.Background(), event.Init, nil))
	assert.Equal(t, 0, d.Count(event.LoadingEntry))
}

// extender publishes an alias through the standard path and one raw verb.
type extender struct {
	Base
	raw int
}

func (e *extender) Names() []string { return []string{"browserSync"} }

func (e *extender) API(standard func(name string) Verb) map[string]Verb {
	return map[string]Verb{
		"bs": standard("bs"),
		"js": func(args ...any) error {
			e.raw++
			return nil
		},
	}
}

func TestRegistry_APIExtensionLastRegistrationWins(t *testing.T) {
	r, _ := newRegistry()
	var log []string

	_, err := r.Install(&probe{names: []string{"js"}, log: &log})
	require.NoError(t, err)

	ext := &extender{}
	verbs, err := r.Install(ext)
	require.NoError(t, err)
	assert.Len(t, verbs, 3)

	require.NoError(t, r.Call("js"))
	assert.Equal(t, 1, ext.raw, "extension overrides the earlier js verb")
	assert.Empty(t, log)
	assert.False(t, r.isActivated(ext), "raw verbs bypass activation")

	require.NoError(t, r.Call("bs"))
	assert.True(t, r.isActivated(ext))
	assert.Equal(t, "bs", ext.Caller())
}

func TestRegistry_InstallFactoryKeepsStateLocal(t *testing.T) {
	var log []string
	factory := func() Component { return &probe{names: []string{"js"}, log: &log} }

	r1, _ := newRegistry()
	r2, _ := newRegistry()
	_, err := r1.InstallFactory(factory)
	require.NoError(t, err)
	_, err = r2.InstallFactory(factory)
	require.NoError(t, err)

	require.NoError(t, r1.Call("js"))

	assert.Len(t, r1.ActiveComponents(), 1)
	assert.Empty(t, r2.ActiveComponents())
}

func TestRegistry_SharedClockOrdersRecords(t *testing.T) {
	clock := NewClock()
	r1 := NewRegistry(event.NewDispatcher(), clock)
	r2 := NewRegistry(event.NewDispatcher(), clock)
	var log []string

	_, err := r1.Install(&probe{names: []string{"js"}, log: &log})
	require.NoError(t, err)
	_, err = r2.Install(&probe{names: []string{"sass"}, log: &log})
	require.NoError(t, err)

	require.NoError(t, r1.Call("js"))
	require.NoError(t, r2.Call("sass"))
	require.NoError(t, r1.Call("js"))

	assert.Equal(t, int64(1), r1.Records()[0].Seq)
	assert.Equal(t, int64(2), r2.Records()[0].Seq)
	assert.Equal(t, int64(3), r1.Records()[1].Seq)
	assert.Equal(t, int64(3), clock.Current())
}

func TestIdentity(t *testing.T) {
	assert.Equal(t, "sass|less", Identity(&probe{names: []string{"sass", "less"}}))
	assert.Equal(t, "component.bare", Identity(bare{}))
}
