// Package schema declares the strict structured-output contracts for each
// pipeline stage. Every object forbids undeclared properties and every
// optional leaf is an explicit nullable union, so the completion service's
// constrained decoding can never silently drop or invent a field.
package schema

import "github.com/creatorstack/dealflow-cli/internal/model"

// Definition is one stage's named output contract. Schema is a JSON-schema
// document ready to be installed as a forced tool's input schema.
type Definition struct {
	Name   string
	Schema map[string]any
}

// isoDateOrNull constrains date leaves to YYYY-MM-DD or null; free-text
// dates are never allowed through a date field.
func isoDateOrNull() map[string]any {
	return map[string]any{
		"type":    []string{"string", "null"},
		"pattern": `^\d{4}-\d{2}-\d{2}$`,
	}
}

func nullableString(maxLen int) map[string]any {
	return map[string]any{
		"type":      []string{"string", "null"},
		"maxLength": maxLen,
	}
}

func boundedString(minLen, maxLen int) map[string]any {
	return map[string]any{
		"type":      "string",
		"minLength": minLen,
		"maxLength": maxLen,
	}
}

func enumOf[T ~string](values []T) map[string]any {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return map[string]any{"type": "string", "enum": out}
}

// nullableEnumOf also admits null, for leaves only populated when the
// source text states them explicitly.
func nullableEnumOf[T ~string](values []T) map[string]any {
	out := make([]any, 0, len(values)+1)
	for _, v := range values {
		out = append(out, string(v))
	}
	out = append(out, nil)
	return map[string]any{"type": []string{"string", "null"}, "enum": out}
}

func strictObject(properties map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
		"required":             required,
	}
}

// nullableObject is a strict object that may itself be null, used for
// every evidenced wrapper so the model has a truthful way to say nothing.
func nullableObject(properties map[string]any, required []string) map[string]any {
	obj := strictObject(properties, required)
	obj["type"] = []string{"object", "null"}
	return obj
}

// Evidence returns the shared evidence leaf schema: a short literal quote,
// its source segment, and a page number meaningful only for PDF text.
func Evidence() map[string]any {
	return strictObject(map[string]any{
		"quote":  boundedString(1, 240),
		"source": enumOf(model.AllEvidenceSources()),
		"page":   map[string]any{"type": []string{"integer", "null"}, "minimum": 1},
	}, []string{"quote", "source", "page"})
}

// evidenced wraps a value schema in the standard {value, evidence} shape.
func evidenced(value map[string]any) map[string]any {
	return nullableObject(map[string]any{
		"value":    value,
		"evidence": Evidence(),
	}, []string{"value", "evidence"})
}

// Routing returns the stage-1 classification contract.
func Routing() Definition {
	return Definition{
		Name: "routing_v1",
		Schema: strictObject(map[string]any{
			"isDeal":                 map[string]any{"type": "boolean"},
			"dealStage":              enumOf(model.AllDealStages()),
			"shouldParseAttachments": map[string]any{"type": "boolean"},
			"routingReason":          nullableString(200),
		}, []string{"isDeal", "dealStage", "shouldParseAttachments", "routingReason"}),
	}
}

// Minimal returns the always-run inbox-card extraction contract.
func Minimal() Definition {
	return Definition{
		Name: "deal_minimal_extraction_v1",
		Schema: strictObject(map[string]any{
			"campaignName":       evidenced(boundedString(1, 120)),
			"brandName":          evidenced(boundedString(1, 120)),
			"lastActionNeededBy": evidenced(enumOf(model.AllActors())),
			"draftRequired":      evidenced(map[string]any{"type": "boolean"}),
			"goLiveWindow": nullableObject(map[string]any{
				"rawText":   boundedString(1, 120),
				"startDate": isoDateOrNull(),
				"endDate":   isoDateOrNull(),
				"evidence":  Evidence(),
			}, []string{"rawText", "startDate", "endDate", "evidence"}),
			"payment": nullableObject(map[string]any{
				"amount":       map[string]any{"type": []string{"number", "null"}, "minimum": 0},
				"currency":     enumOf(model.AllCurrencies()),
				"paymentTerms": nullableString(60),
				"evidence":     Evidence(),
			}, []string{"amount", "currency", "paymentTerms", "evidence"}),
			"deliverablesSummary": evidenced(boundedString(1, 220)),
		}, []string{
			"campaignName", "brandName", "lastActionNeededBy", "draftRequired",
			"goLiveWindow", "payment", "deliverablesSummary",
		}),
	}
}

// Deep returns the late-stage/contractual extraction contract.
func Deep() Definition {
	return Definition{
		Name: "deal_deep_extraction_v1",
		Schema: strictObject(map[string]any{
			"exclusivityRightsSummary": evidenced(boundedString(1, 180)),
			"usageRightsSummary":       evidenced(boundedString(1, 180)),
			"payment": strictObject(map[string]any{
				"amount":            map[string]any{"type": []string{"number", "null"}, "minimum": 0},
				"currency":          enumOf(model.AllCurrencies()),
				"paymentTerms":      nullableString(120),
				"paymentStatus":     nullableEnumOf(model.AllPaymentStatuses()),
				"invoiceSentAt":     isoDateOrNull(),
				"invoiceExpectedAt": isoDateOrNull(),
				"evidence":          Evidence(),
			}, []string{
				"amount", "currency", "paymentTerms", "paymentStatus",
				"invoiceSentAt", "invoiceExpectedAt", "evidence",
			}),
			"keyDates": map[string]any{
				"type":     "array",
				"maxItems": 30,
				"items": strictObject(map[string]any{
					"name":        nullableString(80),
					"dateRawText": boundedString(1, 120),
					"startDate":   isoDateOrNull(),
					"endDate":     isoDateOrNull(),
					"description": nullableString(160),
					"evidence":    Evidence(),
				}, []string{"name", "dateRawText", "startDate", "endDate", "description", "evidence"}),
			},
			"requiredActions": actionList(),
			"mustAvoids":      actionList(),
			"deliverables": map[string]any{
				"type":     "array",
				"maxItems": 50,
				"items": strictObject(map[string]any{
					"platform":       enumOf(model.AllPlatforms()),
					"type":           enumOf(model.AllDeliverableTypes()),
					"quantity":       map[string]any{"type": []string{"integer", "null"}, "minimum": 1},
					"dueDate":        isoDateOrNull(),
					"dueDateRawText": nullableString(120),
					"description":    nullableString(160),
					"evidence":       Evidence(),
				}, []string{"platform", "type", "quantity", "dueDate", "dueDateRawText", "description", "evidence"}),
			},
		}, []string{
			"exclusivityRightsSummary", "usageRightsSummary", "payment",
			"keyDates", "requiredActions", "mustAvoids", "deliverables",
		}),
	}
}

func actionList() map[string]any {
	return map[string]any{
		"type":     "array",
		"maxItems": 50,
		"items": strictObject(map[string]any{
			"name":        boundedString(1, 80),
			"description": nullableString(160),
			"evidence":    Evidence(),
		}, []string{"name", "description", "evidence"}),
	}
}
