package cli

import "context"

func (c *Cli) runLegal(ctx context.Context, args []string) error {
	docType := "terms"
	if len(args) > 0 {
		docType = args[0]
	}

	doc, err := c.gw.Legal(ctx, docType)
	if err != nil {
		return err
	}

	c.io.Println(doc.Title)
	c.io.Println()
	c.io.Println(doc.Content)
	return nil
}
