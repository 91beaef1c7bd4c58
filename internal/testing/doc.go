// Package testing provides test infrastructure for sale settlement tests.
//
// It follows the shape of a jtx-style harness: deterministic named accounts,
// a controllable clock and an Env that wires a full stack (store, settings,
// engine, liquidity reserve, registry) over an in-memory database.
//
// # Basic Usage
//
//	func TestSale(t *testing.T) {
//	    env := jtx.NewEnv(t)
//
//	    seller := jtx.NewAccount("seller")
//	    env.Issue("TKN", 18, seller, jtx.Units("1000"))
//	    env.Fund(seller, types.NativeAsset, jtx.Units("100"))
//
//	    info := env.CreateSale(seller, jtx.Params(env, seller).Build())
//	    env.AdvanceTime(info.StartTime.Sub(env.Now()))
//	}
//
// # Accounts
//
// Using the same name always produces the same principal:
//
//	alice := jtx.NewAccount("alice")
//
// # Amounts
//
// Units parses a decimal string at 18 decimals; UnitsAt takes the decimals:
//
//	jtx.Units("0.1")         // 10^17
//	jtx.UnitsAt("2.5", 6)    // 2500000
//
// # Clock Control
//
//	env.AdvanceTime(10 * time.Second)
//	env.SetTime(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
//	env.Now()
package testing
