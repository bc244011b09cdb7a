/*
Package document turns a URL into a normalized page response.

The Pipeline asks a transport.Transport for bytes, classifies failures into
network error kinds and runs an Extractor over the body to produce display
text and a title. Every outcome is a types.PageResponse; transport errors
never escape.

	pipeline := document.NewPipeline(client, document.Options{Logger: log})
	resp := pipeline.FetchDocument(ctx, "https://example.test/")

Extraction is best effort. When the extractor fails, the body is stripped of
markup and still returned as an OK response.
*/
package document
