// Package chronicle embeds the conversation gateway in a Go program: the same
// markdown-to-JSON conversion and keyword search the HTTP server exposes,
// without the HTTP hop.
//
//	client, _ := chronicle.New(ctx, chronicle.WithToolsDir("/opt/ai-chronicle"))
//	conv, _ := client.Convert(ctx, markdown, "chat.md")
//	res, _ := client.Search(ctx, "deadline", conv.Data, chronicle.Limit(5))
//	for _, r := range res.Results {
//	    fmt.Println(r.Number, r.Text)
//	}
package chronicle
