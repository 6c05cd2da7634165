package mcpserver

// FrontmatterContract describes the canonical frontmatter shape that
// LLM consumers should follow when reading or mutating posts.
const FrontmatterContract = `# Fehu Frontmatter Contract

Every Markdown post managed through Fehu carries a YAML frontmatter block.

## Structure

` + "```" + `markdown
---
title: Human-readable title         # string
date: 2025-01-15                    # string or YAML date, YYYY-MM-DD
publishDate: 2025-01-20             # string or YAML date, YYYY-MM-DD
description: One-line summary       # string
draft: false                        # boolean
tags:                               # list of strings
  - tag-one
  - tag-two
images:                             # list of strings
  - /images/cover.png
---

Body text in standard Markdown. Fehu never touches the body.
` + "```" + `

## Rules

1. **All file paths passed to tools are absolute.** Relative paths are
   rejected, never resolved against a working directory.
2. **Typed fields are enforced.** ` + "`" + `title` + "`" + `, ` + "`" + `date` + "`" + `, ` + "`" + `publishDate` + "`" + ` and
   ` + "`" + `description` + "`" + ` take strings; ` + "`" + `draft` + "`" + ` takes a boolean. A wrong type is
   rejected before the file is opened.
3. **List fields tolerate degenerate shapes.** An absent ` + "`" + `tags` + "`" + ` or
   ` + "`" + `images` + "`" + ` field reads as an empty list and a bare string as a
   one-element list. Any other shape is an error; values are never coerced.
4. **Mutations are single-field.** Fields an operation does not target are
   written back verbatim, including fields Fehu knows nothing about.
5. **No-ops do not write.** Adding a tag that already exists, or removing
   one that does not, reports success without rewriting the file.
6. **Batch operations never abort on one file.** A malformed post is
   reported in the result and the rest of the directory is still processed.
`
