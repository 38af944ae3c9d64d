package planner

import "metrolive.dev/internal/models"

type JourneyPlanner struct {
	routes *RouteCalculator
	fares  *FareCalculator
}

func NewJourneyPlanner(routes *RouteCalculator, fares *FareCalculator) *JourneyPlanner {
	return &JourneyPlanner{routes: routes, fares: fares}
}

// PlanJourney combines the route, the fare for the chosen ticket and the
// full fare comparison.
func (jp *JourneyPlanner) PlanJourney(sourceID, destinationID int, isWeekend, useSmartCard bool) (*models.JourneyPlan, error) {
	route, err := jp.routes.CalculateRoute(sourceID, destinationID)
	if err != nil {
		return nil, err
	}

	fare, err := jp.fares.CalculateFare(models.FareRequest{
		SourceID:      sourceID,
		DestinationID: destinationID,
		IsWeekend:     isWeekend,
		UseSmartCard:  useSmartCard,
	})
	if err != nil {
		return nil, err
	}

	comparison, err := jp.fares.CompareFares(sourceID, destinationID)
	if err != nil {
		return nil, err
	}

	return &models.JourneyPlan{
		Route:          route,
		Fare:           fare,
		FareComparison: comparison,
	}, nil
}
