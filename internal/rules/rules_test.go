package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

func detectOn(t *testing.T, r Rule, path, src string) []ir.Span {
	t.Helper()
	u := source.NewUnit(path, src)
	require.True(t, u.Parsed, "fixture must lex cleanly")
	return r.Detect(u)
}

func hints(spans []ir.Span) []string {
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = s.Hint
	}
	return out
}

func TestBarrelImportsRule(t *testing.T) {
	r := NewBarrelImportsRule()
	assert.Equal(t, ir.SeverityCritical, r.Severity())

	t.Run("flags named import from the package root", func(t *testing.T) {
		spans := detectOn(t, r, "src/a.ts", `import { merge, debounce } from "lodash";`+"\n")
		require.Len(t, spans, 1)
		assert.Equal(t, 1, spans[0].Line)
		assert.Equal(t, `{merge} from "lodash"`, spans[0].Hint)
	})

	t.Run("subpath import is the fix, not a finding", func(t *testing.T) {
		spans := detectOn(t, r, "src/a.ts", `import merge from "lodash/merge";`+"\n")
		assert.Empty(t, spans)
	})

	t.Run("type-only and re-export forms are skipped", func(t *testing.T) {
		src := `import type { Dictionary } from "lodash";
export { merge } from "lodash";
`
		assert.Empty(t, detectOn(t, r, "src/a.ts", src))
	})

	t.Run("extra packages extend the list", func(t *testing.T) {
		extended := NewBarrelImportsRule("my-ui")
		spans := detectOn(t, extended, "src/a.ts", `import { Button } from "my-ui";`+"\n")
		assert.Len(t, spans, 1)
	})
}

func TestDynamicImportsRule(t *testing.T) {
	r := NewDynamicImportsRule()

	t.Run("flags heavy static import in a client component", func(t *testing.T) {
		src := `"use client";
import Chart from "chart.js";
import { Chart as Auto } from "chart.js/auto";
`
		spans := detectOn(t, r, "src/chart.tsx", src)
		require.Len(t, spans, 2)
		assert.Equal(t, "chart.js", spans[0].Hint)
		assert.Equal(t, "chart.js/auto", spans[1].Hint)
	})

	t.Run("server components can import heavy code", func(t *testing.T) {
		spans := detectOn(t, r, "app/report/page.tsx", `import Chart from "chart.js";`+"\n")
		assert.Empty(t, spans)
	})

	t.Run("dynamic import is the fix", func(t *testing.T) {
		src := `"use client";
const load = () => import("chart.js");
`
		assert.Empty(t, detectOn(t, r, "src/chart.tsx", src))
	})
}

func TestDeferThirdPartyRule(t *testing.T) {
	r := NewDeferThirdPartyRule()

	t.Run("flags raw script tags in JSX", func(t *testing.T) {
		src := `export default function Layout() {
  return <script src="https://example.com/widget.js" />;
}
`
		spans := detectOn(t, r, "app/layout.tsx", src)
		require.Len(t, spans, 1)
		assert.Equal(t, 2, spans[0].Line)
		assert.Equal(t, "raw <script> tag in JSX", spans[0].Hint)
	})

	t.Run("flags beforeInteractive strategy", func(t *testing.T) {
		src := `import Script from "next/script";
export function Analytics() {
  return <Script src="https://example.com/a.js" strategy="beforeInteractive" />;
}
`
		spans := detectOn(t, r, "app/analytics.tsx", src)
		require.Len(t, spans, 1)
		assert.Equal(t, `strategy="beforeInteractive"`, spans[0].Hint)
	})

	t.Run("lazyOnload is fine", func(t *testing.T) {
		src := `import Script from "next/script";
export function Analytics() {
  return <Script src="https://example.com/a.js" strategy="lazyOnload" />;
}
`
		assert.Empty(t, detectOn(t, r, "app/analytics.tsx", src))
	})
}

func TestNamespaceImportRule(t *testing.T) {
	r := NewNamespaceImportRule()

	t.Run("flags namespace imports of utility libraries", func(t *testing.T) {
		src := `import * as _ from "lodash";
import * as L from "lodash-es";
`
		spans := detectOn(t, r, "src/a.ts", src)
		require.Len(t, spans, 2)
		assert.Equal(t, `* as _ from "lodash"`, spans[0].Hint)
	})

	t.Run("local modules are not barrels", func(t *testing.T) {
		spans := detectOn(t, r, "src/a.ts", `import * as utils from "./utils";`+"\n")
		assert.Empty(t, spans)
	})
}

func TestParallelAwaitRule(t *testing.T) {
	r := NewParallelAwaitRule()
	assert.Equal(t, ir.SeverityCritical, r.Severity())

	t.Run("flags independent back-to-back awaits", func(t *testing.T) {
		src := `async function load() {
  const user = await fetchUser();
  const posts = await fetchPosts();
  return { user, posts };
}
`
		spans := detectOn(t, r, "src/load.ts", src)
		require.Len(t, spans, 1)
		assert.Equal(t, 3, spans[0].Line)
		assert.Equal(t, `does not use "user" awaited on line 2`, spans[0].Hint)
	})

	t.Run("dependent awaits must serialize", func(t *testing.T) {
		src := `async function load() {
  const user = await fetchUser();
  const posts = await fetchPosts(user.id);
  return posts;
}
`
		assert.Empty(t, detectOn(t, r, "src/load.ts", src))
	})

	t.Run("distant awaits are unrelated", func(t *testing.T) {
		src := `async function load() {
  const user = await fetchUser();

  validate(user);
  audit(user);

  const posts = await fetchPosts();
  return posts;
}
`
		assert.Empty(t, detectOn(t, r, "src/load.ts", src))
	})

	t.Run("awaits at different nesting do not pair", func(t *testing.T) {
		src := `async function load(flag) {
  const user = await fetchUser();
  if (flag) {
    const extra = await fetchExtra();
  }
}
`
		assert.Empty(t, detectOn(t, r, "src/load.ts", src))
	})
}

func TestAwaitInLoopRule(t *testing.T) {
	r := NewAwaitInLoopRule()

	t.Run("flags await inside a for-of body", func(t *testing.T) {
		src := `async function saveAll(items) {
  for (const item of items) {
    await save(item);
  }
}
`
		spans := detectOn(t, r, "src/batch.ts", src)
		require.Len(t, spans, 1)
		assert.Equal(t, 3, spans[0].Line)
	})

	t.Run("flags await inside a while body", func(t *testing.T) {
		src := `async function drainAll(queue) {
  while (queue.length > 0) {
    await drain(queue.pop());
  }
}
`
		assert.Len(t, detectOn(t, r, "src/batch.ts", src), 1)
	})

	t.Run("for-await-of streams are sequential on purpose", func(t *testing.T) {
		src := `async function readAll(stream) {
  for await (const chunk of stream) {
    handle(chunk);
  }
}
`
		assert.Empty(t, detectOn(t, r, "src/stream.ts", src))
	})

	t.Run("flags async callbacks handed to forEach", func(t *testing.T) {
		src := `function queueAll(items) {
  items.forEach(async (item) => {
    await save(item);
  });
}
`
		spans := detectOn(t, r, "src/batch.ts", src)
		require.Len(t, spans, 1)
		assert.Equal(t, "async callback passed to forEach", spans[0].Hint)
	})

	t.Run("plain loops pass", func(t *testing.T) {
		src := `function sum(items) {
  let total = 0;
  for (const item of items) {
    total += item.value;
  }
  return total;
}
`
		assert.Empty(t, detectOn(t, r, "src/sum.ts", src))
	})
}

func TestFetchInEffectRule(t *testing.T) {
	r := NewFetchInEffectRule()

	t.Run("flags fetch inside useEffect", func(t *testing.T) {
		src := `import { useEffect, useState } from "react";
export function Profile({ id }) {
  useEffect(() => {
    fetch("/api/user/" + id);
  }, [id]);
  return null;
}
`
		spans := detectOn(t, r, "src/profile.tsx", src)
		require.Len(t, spans, 1)
		assert.Equal(t, 4, spans[0].Line)
		assert.Equal(t, "fetch call", spans[0].Hint)
	})

	t.Run("effects without requests pass", func(t *testing.T) {
		src := `import { useEffect } from "react";
export function Title({ text }) {
  useEffect(() => {
    document.title = text;
  }, [text]);
  return null;
}
`
		assert.Empty(t, detectOn(t, r, "src/title.tsx", src))
	})
}

func TestSyncIORule(t *testing.T) {
	r := NewSyncIORule()

	t.Run("flags sync calls in a route handler", func(t *testing.T) {
		src := `import { readFileSync } from "fs";
export function GET() {
  const raw = readFileSync("./data.json");
  return Response.json(JSON.parse(raw));
}
`
		spans := detectOn(t, r, "app/api/data/route.ts", src)
		require.Len(t, spans, 1)
		assert.Equal(t, 3, spans[0].Line)
		assert.Equal(t, "readFileSync", spans[0].Hint)
	})

	t.Run("an fs import marks any file as IO code", func(t *testing.T) {
		src := `const fs = require("fs");
const data = fs.readFileSync("config.json");
`
		spans := detectOn(t, r, "scripts/build.ts", src)
		require.Len(t, spans, 1)
	})

	t.Run("needs server context or a node IO import", func(t *testing.T) {
		src := `export function load(readFileSync) {
  return readFileSync("x");
}
`
		assert.Empty(t, detectOn(t, r, "src/lib/cache.ts", src))
	})
}

func TestForceDynamicRule(t *testing.T) {
	r := NewForceDynamicRule()

	t.Run("flags force-dynamic and revalidate 0", func(t *testing.T) {
		src := `export const dynamic = "force-dynamic";
export const revalidate = 0;
export default function Dashboard() {
  return null;
}
`
		spans := detectOn(t, r, "app/dashboard/page.tsx", src)
		require.Len(t, spans, 2)
		assert.Equal(t, `dynamic = "force-dynamic"`, spans[0].Hint)
		assert.Equal(t, "revalidate = 0", spans[1].Hint)
		assert.Equal(t, 1, spans[0].Line)
		assert.Equal(t, 2, spans[1].Line)
	})

	t.Run("only app router segments carry this config", func(t *testing.T) {
		src := `export const dynamic = "force-dynamic";` + "\n"
		assert.Empty(t, detectOn(t, r, "src/config.ts", src))
	})

	t.Run("a real revalidate window passes", func(t *testing.T) {
		src := `export const revalidate = 60;` + "\n"
		assert.Empty(t, detectOn(t, r, "app/news/page.tsx", src))
	})
}

func TestFetchNoStoreRule(t *testing.T) {
	r := NewFetchNoStoreRule()

	t.Run("flags no-store fetches in server code", func(t *testing.T) {
		src := `export default async function Page() {
  const res = await fetch("https://api.example.com/items", { cache: "no-store" });
  return res.json();
}
`
		spans := detectOn(t, r, "app/products/page.tsx", src)
		require.Len(t, spans, 1)
		assert.Equal(t, `cache: "no-store"`, spans[0].Hint)
	})

	t.Run("client code is out of scope", func(t *testing.T) {
		src := `"use client";
const res = fetch("/api", { cache: "no-store" });
`
		assert.Empty(t, detectOn(t, r, "app/widget.tsx", src))
	})

	t.Run("cached fetches pass", func(t *testing.T) {
		src := `export default async function Page() {
  const res = await fetch("https://api.example.com/items", { next: { revalidate: 60 } });
  return res.json();
}
`
		assert.Empty(t, detectOn(t, r, "app/products/page.tsx", src))
	})
}

func TestNestedComponentRule(t *testing.T) {
	r := NewNestedComponentRule()

	t.Run("flags components declared inside another function", func(t *testing.T) {
		src := `export function Dashboard() {
  function StatCard({ label }) {
    return <div>{label}</div>;
  }
  const Row = ({ item }) => <li>{item.name}</li>;
  return <StatCard label="uptime" />;
}
`
		spans := detectOn(t, r, "src/dashboard.tsx", src)
		require.Len(t, spans, 2)
		assert.Equal(t, "StatCard", spans[0].Hint)
		assert.Equal(t, 2, spans[0].Line)
		assert.Equal(t, "Row", spans[1].Hint)
		assert.Equal(t, 5, spans[1].Line)
	})

	t.Run("module scope components pass", func(t *testing.T) {
		src := `function Card() {
  return null;
}
const Button = () => null;
export { Card, Button };
`
		assert.Empty(t, detectOn(t, r, "src/ui.tsx", src))
	})

	t.Run("nested helpers are not components", func(t *testing.T) {
		src := `export function Dashboard() {
  const handleClick = () => save();
  function format(n) {
    return n.toFixed(2);
  }
  return null;
}
`
		assert.Empty(t, detectOn(t, r, "src/dashboard.tsx", src))
	})
}

func TestDerivedStateEffectRule(t *testing.T) {
	r := NewDerivedStateEffectRule()

	t.Run("flags effects that only push derived state", func(t *testing.T) {
		src := `import { useState, useEffect } from "react";
export function Price({ value }) {
  const [label, setLabel] = useState("");
  useEffect(() => {
    setLabel(value.toFixed(2));
  }, [value]);
  return label;
}
`
		spans := detectOn(t, r, "src/price.tsx", src)
		require.Len(t, spans, 1)
		assert.Equal(t, 5, spans[0].Line)
		assert.Equal(t, "setLabel", spans[0].Hint)
	})

	t.Run("effects that talk to the outside world pass", func(t *testing.T) {
		src := `import { useState, useEffect } from "react";
export function Price({ id }) {
  const [label, setLabel] = useState("");
  useEffect(() => {
    fetch("/api/price/" + id).then((r) => r.json()).then((d) => setLabel(d.label));
  }, [id]);
  return label;
}
`
		assert.Empty(t, detectOn(t, r, "src/price.tsx", src))
	})
}

func TestFunctionalSetStateRule(t *testing.T) {
	r := NewFunctionalSetStateRule()

	t.Run("flags setters reading their own state", func(t *testing.T) {
		src := `import { useState } from "react";
export function Counter({ step }) {
  const [count, setCount] = useState(0);
  const inc = () => setCount(count + step);
  const dec = () => setCount(count => count - 1);
  return inc;
}
`
		spans := detectOn(t, r, "src/counter.tsx", src)
		require.Len(t, spans, 1, "the functional form on the dec line is the fix")
		assert.Equal(t, 4, spans[0].Line)
		assert.Equal(t, "setCount(count ...)", spans[0].Hint)
	})

	t.Run("setting from other values passes", func(t *testing.T) {
		src := `import { useState } from "react";
export function Counter({ step }) {
  const [count, setCount] = useState(0);
  const jump = () => setCount(step * 10);
  return count;
}
`
		assert.Empty(t, detectOn(t, r, "src/counter.tsx", src))
	})
}

func TestLazyStateInitRule(t *testing.T) {
	r := NewLazyStateInitRule()

	t.Run("flags call results as initializers", func(t *testing.T) {
		src := `import { useState } from "react";
export function Filters({ raw }) {
  const [prefs] = useState(loadPrefs());
  const [parsed] = useState(JSON.parse(raw));
  return prefs;
}
`
		spans := detectOn(t, r, "src/filters.tsx", src)
		require.Len(t, spans, 2)
		assert.Equal(t, "loadPrefs(...)", spans[0].Hint)
		assert.Equal(t, "JSON.parse(...)", spans[1].Hint)
	})

	t.Run("literals and thunks pass", func(t *testing.T) {
		src := `import { useState } from "react";
export function Filters({ raw }) {
  const [count] = useState(0);
  const [name] = useState(raw);
  const [prefs] = useState(() => loadPrefs());
  return count;
}
`
		assert.Empty(t, detectOn(t, r, "src/filters.tsx", src))
	})
}

func TestContextLiteralRule(t *testing.T) {
	r := NewContextLiteralRule()

	t.Run("flags inline provider values", func(t *testing.T) {
		src := `export function ThemeProvider({ children }) {
  return (
    <ThemeContext.Provider value={{ mode: "dark" }}>
      {children}
    </ThemeContext.Provider>
  );
}
`
		spans := detectOn(t, r, "src/theme.tsx", src)
		require.Len(t, spans, 1)
		assert.Equal(t, 3, spans[0].Line)
	})

	t.Run("memoized values and plain props pass", func(t *testing.T) {
		src := `export function ThemeProvider({ children, theme }) {
  return (
    <ThemeContext.Provider value={theme}>
      <input value={{ mode: "dark" }} />
      {children}
    </ThemeContext.Provider>
  );
}
`
		assert.Empty(t, detectOn(t, r, "src/theme.tsx", src))
	})
}

func TestImgElementRule(t *testing.T) {
	r := NewImgElementRule()

	t.Run("flags raw img in the app router", func(t *testing.T) {
		src := `export default function Gallery() {
  return <img src="/photo.jpg" alt="" />;
}
`
		spans := detectOn(t, r, "app/gallery/page.tsx", src)
		require.Len(t, spans, 1)
		assert.Equal(t, 2, spans[0].Line)
	})

	t.Run("a next import marks the project", func(t *testing.T) {
		src := `import Link from "next/link";
export function Hero() {
  return <img src="/hero.jpg" alt="" />;
}
`
		assert.Len(t, detectOn(t, r, "src/components/Hero.tsx", src), 1)
	})

	t.Run("plain react projects have no next/image", func(t *testing.T) {
		src := `import React from "react";
export function Hero() {
  return <img src="/hero.jpg" alt="" />;
}
`
		assert.Empty(t, detectOn(t, r, "src/components/Hero.tsx", src))
	})
}

func TestHydrationFlagRule(t *testing.T) {
	r := NewHydrationFlagRule()

	t.Run("flags the mounted-flag pattern", func(t *testing.T) {
		src := `import { useState, useEffect } from "react";
export function Clock() {
  const [mounted, setMounted] = useState(false);
  useEffect(() => setMounted(true), []);
  if (!mounted) return null;
  return <time>{Date.now()}</time>;
}
`
		spans := detectOn(t, r, "src/clock.tsx", src)
		require.Len(t, spans, 1)
		assert.Equal(t, 3, spans[0].Line)
		assert.Equal(t, "mounted", spans[0].Hint)
	})

	t.Run("recognizes the usual flag names", func(t *testing.T) {
		src := `import { useState } from "react";
export function Shell() {
  const [isClient, setIsClient] = useState(false);
  const [hydrated, setHydrated] = useState(false);
  return isClient && hydrated;
}
`
		assert.Equal(t, []string{"isClient", "hydrated"}, hints(detectOn(t, r, "src/shell.tsx", src)))
	})

	t.Run("ordinary boolean state passes", func(t *testing.T) {
		src := `import { useState } from "react";
export function Menu() {
  const [open, setOpen] = useState(false);
  return open;
}
`
		assert.Empty(t, detectOn(t, r, "src/menu.tsx", src))
	})
}

func TestIndexKeyRule(t *testing.T) {
	r := NewIndexKeyRule()

	t.Run("flags key={index} in map callbacks", func(t *testing.T) {
		src := `export function List({ items }) {
  return (
    <ul>
      {items.map((item, index) => (
        <li key={index}>{item.name}</li>
      ))}
    </ul>
  );
}
`
		spans := detectOn(t, r, "src/list.tsx", src)
		require.Len(t, spans, 1)
		assert.Equal(t, "key={index}", spans[0].Hint)
	})

	t.Run("stable identity keys pass", func(t *testing.T) {
		src := `export function List({ items }) {
  return (
    <ul>
      {items.map((item, index) => (
        <li key={item.id}>{item.name}</li>
      ))}
    </ul>
  );
}
`
		assert.Empty(t, detectOn(t, r, "src/list.tsx", src))
	})

	t.Run("single-parameter callbacks have no index", func(t *testing.T) {
		src := `export function List({ items }) {
  return items.map((item) => <li key={item.id}>{item.name}</li>);
}
`
		assert.Empty(t, detectOn(t, r, "src/list.tsx", src))
	})
}

func TestSpreadAccumulatorRule(t *testing.T) {
	r := NewSpreadAccumulatorRule()

	t.Run("flags accumulator spreads in reduce", func(t *testing.T) {
		src := `const byId = rows.reduce((acc, row) => ({ ...acc, [row.id]: row }), {});` + "\n"
		spans := detectOn(t, r, "src/group.ts", src)
		require.Len(t, spans, 1)
		assert.Equal(t, "...acc", spans[0].Hint)
	})

	t.Run("mutating the accumulator passes", func(t *testing.T) {
		src := `const byId = rows.reduce((acc, row) => {
  acc[row.id] = row;
  return acc;
}, {});
`
		assert.Empty(t, detectOn(t, r, "src/group.ts", src))
	})

	t.Run("spreading something else passes", func(t *testing.T) {
		src := `const merged = rows.reduce((acc, row) => Object.assign(acc, { ...row }), {});` + "\n"
		assert.Empty(t, detectOn(t, r, "src/group.ts", src))
	})
}

func TestJSONCloneRule(t *testing.T) {
	r := NewJSONCloneRule()

	t.Run("flags the JSON round trip clone", func(t *testing.T) {
		src := `const copy = JSON.parse(JSON.stringify(state));` + "\n"
		spans := detectOn(t, r, "src/clone.ts", src)
		require.Len(t, spans, 1)
		assert.Equal(t, 1, spans[0].Line)
	})

	t.Run("plain parse passes", func(t *testing.T) {
		src := `const data = JSON.parse(raw);` + "\n"
		assert.Empty(t, detectOn(t, r, "src/clone.ts", src))
	})
}

func TestCombineIterationsRule(t *testing.T) {
	r := NewCombineIterationsRule()

	t.Run("flags chained array passes", func(t *testing.T) {
		src := `const names = users.filter((u) => u.active).map((u) => u.name);` + "\n"
		spans := detectOn(t, r, "src/users.ts", src)
		require.Len(t, spans, 1)
		assert.Equal(t, ".filter().map()", spans[0].Hint)
	})

	t.Run("single passes and non-iterating chains pass", func(t *testing.T) {
		src := `const names = users.map((u) => u.name);
const joined = users.map((u) => u.name).join(", ");
`
		assert.Empty(t, detectOn(t, r, "src/users.ts", src))
	})
}

func TestMathMaxSpreadRule(t *testing.T) {
	r := NewMathMaxSpreadRule()

	t.Run("flags spreads into Math.max and Math.min", func(t *testing.T) {
		src := `const top = Math.max(...scores);
const low = Math.min(...scores);
`
		assert.Equal(t, []string{"Math.max(...)", "Math.min(...)"}, hints(detectOn(t, r, "src/stats.ts", src)))
	})

	t.Run("fixed arity calls pass", func(t *testing.T) {
		src := `const top = Math.max(a, b);` + "\n"
		assert.Empty(t, detectOn(t, r, "src/stats.ts", src))
	})
}

func TestConsoleLogRule(t *testing.T) {
	r := NewConsoleLogRule()

	t.Run("flags noisy console methods", func(t *testing.T) {
		src := `export function report(payload) {
  console.log("dump", payload);
  console.error("boom");
  logger.log("fine");
}
`
		spans := detectOn(t, r, "src/report.ts", src)
		require.Len(t, spans, 1)
		assert.Equal(t, 2, spans[0].Line)
		assert.Equal(t, "console.log", spans[0].Hint)
	})

	t.Run("degraded units fall back to line matching", func(t *testing.T) {
		src := "const s = \"unterminated\nconsole.log(\"later\");\n// console.log(\"commented out\")\n * console.log(\"doc\")\n"
		u := source.NewUnit("src/broken.ts", src)
		require.False(t, u.Parsed)

		spans := r.Detect(u)
		require.Len(t, spans, 1)
		assert.Equal(t, 2, spans[0].Line)
		assert.Equal(t, 1, spans[0].Col)
		assert.Equal(t, "console.log", spans[0].Hint)
	})
}

func TestPointerEventsStateRule(t *testing.T) {
	r := NewPointerEventsStateRule()

	t.Run("flags setState driven by mousemove listeners", func(t *testing.T) {
		src := `import { useState, useEffect } from "react";
export function Tracker() {
  const [pos, setPos] = useState(0);
  useEffect(() => {
    window.addEventListener("mousemove", (e) => setPos(e.clientX));
  }, []);
  return pos;
}
`
		spans := detectOn(t, r, "src/tracker.tsx", src)
		require.Len(t, spans, 1)
		assert.Equal(t, "mousemove", spans[0].Hint)
	})

	t.Run("flags setState in continuous JSX handlers", func(t *testing.T) {
		src := `import { useState } from "react";
export function Pad() {
  const [x, setX] = useState(0);
  return <div onMouseMove={(e) => setX(e.clientX)}>{x}</div>;
}
`
		spans := detectOn(t, r, "src/pad.tsx", src)
		require.Len(t, spans, 1)
		assert.Equal(t, "onMouseMove", spans[0].Hint)
	})

	t.Run("writing to a ref passes", func(t *testing.T) {
		src := `import { useRef } from "react";
export function Pad() {
  const posRef = useRef(0);
  return <div onMouseMove={(e) => { posRef.current = e.clientX; }} />;
}
`
		assert.Empty(t, detectOn(t, r, "src/pad.tsx", src))
	})
}

func TestListenerCleanupRule(t *testing.T) {
	r := NewListenerCleanupRule()

	t.Run("flags listeners and intervals without teardown", func(t *testing.T) {
		src := `import * as React from "react";
export function Ticker({ tick, onResize }) {
  React.useEffect(() => {
    const id = setInterval(tick, 1000);
    window.addEventListener("resize", onResize);
  }, []);
  return null;
}
`
		spans := detectOn(t, r, "src/ticker.tsx", src)
		assert.Equal(t, []string{
			"addEventListener without removeEventListener",
			"setInterval without clearInterval",
		}, hints(spans))
	})

	t.Run("a cleanup function settles it", func(t *testing.T) {
		src := `import * as React from "react";
export function Sized({ onResize }) {
  React.useEffect(() => {
    window.addEventListener("resize", onResize);
    return () => window.removeEventListener("resize", onResize);
  }, []);
  return null;
}
`
		assert.Empty(t, detectOn(t, r, "src/sized.tsx", src))
	})
}

func TestPassiveListenersRule(t *testing.T) {
	r := NewPassiveListenersRule()

	t.Run("flags scroll-blocking listeners without passive", func(t *testing.T) {
		src := `export function bindScroll(onScroll) {
  window.addEventListener("scroll", onScroll);
  document.addEventListener("wheel", onScroll, { passive: true });
}
`
		spans := detectOn(t, r, "src/lib/scroll.ts", src)
		require.Len(t, spans, 1)
		assert.Equal(t, "scroll", spans[0].Hint)
		assert.Equal(t, 2, spans[0].Line)
	})

	t.Run("discrete events do not block scrolling", func(t *testing.T) {
		src := `export function bindClick(onClick) {
  window.addEventListener("click", onClick);
}
`
		assert.Empty(t, detectOn(t, r, "src/lib/click.ts", src))
	})
}

func TestCatalogOptions_ExtendPackageLists(t *testing.T) {
	reg := BuiltinRegistry(CatalogOptions{
		BarrelPackages: []string{"my-ui"},
		HeavyPackages:  []string{"fat-lib"},
	})

	barrel, ok := reg.Get("bundle-barrel-imports")
	require.True(t, ok)
	assert.Len(t, barrel.Detect(source.NewUnit("src/a.ts", `import { Button } from "my-ui";`+"\n")), 1)

	heavy, ok := reg.Get("bundle-dynamic-imports")
	require.True(t, ok)
	assert.Len(t, heavy.Detect(source.NewUnit("src/b.tsx", "\"use client\";\nimport fat from \"fat-lib\";\n")), 1)
}

func TestTokenRules_SkipDegradedUnits(t *testing.T) {
	u := source.NewUnit("src/broken.tsx", "const s = \"oops\nimport { merge } from \"lodash\";\n")
	require.False(t, u.Parsed)

	for _, r := range DefaultRegistry().All() {
		if r.ID() == "js-console-log" {
			continue // line-based fallback still applies to degraded units
		}
		assert.Empty(t, r.Detect(u), r.ID())
	}
}

func TestDefaultRegistry_EndToEnd(t *testing.T) {
	src := `export function debugDump(payload) {
  console.log("dump", payload);
  return payload;
}
`
	u := source.NewUnit("src/util.js", src)
	res, err := Evaluate(context.Background(), DefaultRegistry(), []*source.Unit{u}, Options{})
	require.NoError(t, err)

	require.Len(t, res.Violations, 1, "fixture trips exactly one catalog rule")
	v := res.Violations[0]
	assert.Equal(t, "js-console-log", v.RuleID)
	assert.Equal(t, ir.SeverityLow, v.Severity)
	assert.Equal(t, ir.CategoryJSPerf, v.Category)
	assert.Equal(t, 2, v.Line)
	assert.Equal(t, `console.log("dump", payload);`, v.Snippet)
	assert.Regexp(t, `^js-console-log-[0-9a-f]{8}$`, v.ID)
}
