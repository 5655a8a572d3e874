package crawler

import (
	"strings"

	"ricette/repository"

	"github.com/PuerkitoBio/goquery"
)

const (
	// defaultGroup labels the untitled ingredient section every recipe has.
	defaultGroup    = "Ingredienti di base"
	defaultItem     = "N/A"
	defaultQuantity = "q.b."
)

// parseIngredients walks every ingredient section in document order and
// keeps its grouping: one entry per dl, items in source order. Sections
// without a visible title get the default label; a section with no rows
// still yields a group so the section count survives.
func parseIngredients(doc *goquery.Document) []repository.IngredientGroup {
	var groups []repository.IngredientGroup

	doc.Find("dl.gz-list-ingredients").Each(func(_ int, section *goquery.Selection) {
		group := repository.IngredientGroup{Group: defaultGroup}
		if titleNode := section.Find(".gz-title-ingredients").First(); titleNode.Length() > 0 {
			group.Group = CleanText(titleNode.Text())
		}

		section.Find(".gz-ingredient").Each(func(_ int, item *goquery.Selection) {
			ingredient := repository.Ingredient{
				Item:     defaultItem,
				Quantity: defaultQuantity,
			}
			if nameNode := item.Find("a").First(); nameNode.Length() > 0 {
				ingredient.Item = CleanText(nameNode.Text())
			}
			if qtyNode := item.Find("span").First(); qtyNode.Length() > 0 {
				ingredient.Quantity = CleanText(qtyNode.Text())
			}
			group.Items = append(group.Items, ingredient)
		})

		groups = append(groups, group)
	})

	return groups
}

// parseInstructions flattens all preparation steps into one narrative
// string. Step-number labels are dropped, steps that clean down to nothing
// contribute nothing. The discrete step sequence is deliberately not kept.
func parseInstructions(doc *goquery.Document) string {
	var steps []string

	doc.Find("div.gz-content-recipe-step").Each(func(_ int, container *goquery.Selection) {
		body := container.Clone()
		body.Find(".num-step").Remove()
		if step := CleanText(body.Text()); step != "" {
			steps = append(steps, step)
		}
	})

	return strings.Join(steps, " ")
}

// parseRelated reads the related-recipe list items under the content
// block. A pair is kept only when both a label and a link are present;
// the label is trimmed, the href taken verbatim.
func parseRelated(content *goquery.Selection) []repository.RelatedLink {
	var related []repository.RelatedLink

	content.Find("li").Each(func(_ int, item *goquery.Selection) {
		name := strings.TrimSpace(item.Text())
		href, ok := item.Find("a").First().Attr("href")
		if name == "" || !ok || href == "" {
			return
		}
		related = append(related, repository.RelatedLink{Name: name, URL: href})
	})

	return related
}
