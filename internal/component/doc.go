// Package component defines the capability contract of build components and
// the registry that wires them into an event dispatcher.
//
// A component is any value with a Names method. Everything else is optional:
// the registry checks for each hook interface (Registerer, Booter,
// RuleContributor, ...) and only subscribes what is present. There is no base
// class to extend and no reflection on type names; a component declares its
// verb names explicitly.
//
// LIFECYCLE:
//
//  1. Install publishes one Verb per name. A passive component's first verb
//     is called immediately with no arguments.
//  2. Calling a verb records it in the ledger, tells the component which name
//     it was called under, runs Register with the verb's arguments and marks
//     the component activated.
//  3. On "internal:gather-dependencies" an activated component's dependencies
//     are queued.
//  4. On "init" an activated component boots, contributes its config
//     fragment, and only then subscribes its entry/rule/plugin/configReady
//     hooks. Contribution hooks can therefore never run before Boot.
//
// A component that was never activated (and is not passive) never has any of
// these hooks invoked.
package component
