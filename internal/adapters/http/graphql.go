package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	zoneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Zone",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"description":  &graphql.Field{Type: graphql.String},
			"geom":         &graphql.Field{Type: graphql.String},
			"area_acres":   &graphql.Field{Type: graphql.Float},
			"fence_meters": &graphql.Field{Type: graphql.Float},
		},
	})

	herdType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Herd",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"name":      &graphql.Field{Type: graphql.String},
			"species":   &graphql.Field{Type: graphql.String},
			"zone_id":   &graphql.Field{Type: graphql.String},
			"headcount": &graphql.Field{Type: graphql.Int},
			"notes":     &graphql.Field{Type: graphql.String},
		},
	})

	animalType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Animal",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"tag":       &graphql.Field{Type: graphql.String},
			"herd_id":   &graphql.Field{Type: graphql.String},
			"species":   &graphql.Field{Type: graphql.String},
			"breed":     &graphql.Field{Type: graphql.String},
			"sex":       &graphql.Field{Type: graphql.String},
			"weight_kg": &graphql.Field{Type: graphql.Float},
			"status":    &graphql.Field{Type: graphql.String},
		},
	})

	statsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RanchStats",
		Fields: graphql.Fields{
			"zones":            &graphql.Field{Type: graphql.Int},
			"total_area_acres": &graphql.Field{Type: graphql.Float},
			"herds":            &graphql.Field{Type: graphql.Int},
			"animals":          &graphql.Field{Type: graphql.Int},
			"open_tasks":       &graphql.Field{Type: graphql.Int},
			"low_stock_items":  &graphql.Field{Type: graphql.Int},
			"services_logged":  &graphql.Field{Type: graphql.Int},
			"boundaries_drawn": &graphql.Field{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"zones": &graphql.Field{
				Type:        graphql.NewList(zoneType),
				Description: "List all land zones",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Zones.List(p.Context)
				},
			},
			"zone": &graphql.Field{
				Type:        zoneType,
				Description: "Get a zone by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Zones.GetByID(p.Context, id)
				},
			},
			"zoneAt": &graphql.Field{
				Type:        zoneType,
				Description: "Find the zone whose boundary covers a point",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lng := p.Args["lng"].(float64)
					return deps.Zones.ZoneAt(p.Context, lat, lng)
				},
			},
			"herds": &graphql.Field{
				Type:        graphql.NewList(herdType),
				Description: "List all herds",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Herds.List(p.Context)
				},
			},
			"herd": &graphql.Field{
				Type:        herdType,
				Description: "Get a herd by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Herds.GetByID(p.Context, id)
				},
			},
			"animals": &graphql.Field{
				Type:        graphql.NewList(animalType),
				Description: "List animals, optionally filtered by herd and status",
				Args: graphql.FieldConfigArgument{
					"herd_id": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"status":  &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					herdID := p.Args["herd_id"].(string)
					status := p.Args["status"].(string)
					return deps.Animals.List(p.Context, herdID, status)
				},
			},
			"stats": &graphql.Field{
				Type:        statsType,
				Description: "Ranch dashboard aggregates",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Stats.RanchStats(p.Context)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
