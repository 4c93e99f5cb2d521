package report_test

import (
	"github.com/Sumatoshi-tech/flightboard/pkg/flights"
)

// fixtureRecords covers 2016 and 2020 with every column populated somewhere.
func fixtureRecords() []flights.Record {
	return []flights.Record{
		{
			Year: 2016, Month: 1, ReportingAirline: "AA", OriginState: "TX", DestState: "CA",
			Flights: 10, AirTime: flights.Float(120),
			CarrierDelay: flights.Float(10), WeatherDelay: flights.Float(2), NASDelay: flights.Float(4),
			SecurityDelay: flights.Float(0), LateAircraftDelay: flights.Float(6),
		},
		{
			Year: 2016, Month: 1, ReportingAirline: "AA", OriginState: "TX", DestState: "NY",
			Flights: 5, CancellationCode: flights.String("A"),
		},
		{
			Year: 2016, Month: 2, ReportingAirline: "DL", OriginState: "GA", DestState: "CA",
			Flights: 3, AirTime: flights.Float(200), DivAirportLandings: 1,
			CarrierDelay: flights.Float(30), WeatherDelay: flights.Float(0), NASDelay: flights.Float(8),
			SecurityDelay: flights.Float(1), LateAircraftDelay: flights.Float(12),
		},
		{
			Year: 2016, Month: 2, ReportingAirline: "UA", OriginState: "IL", DestState: "TX",
			Flights: 1, CancellationCode: flights.String("B"),
		},
		{
			Year: 2020, Month: 6, ReportingAirline: "B6", OriginState: "NY", DestState: "FL",
			Flights: 2, AirTime: flights.Float(150),
			CarrierDelay: flights.Float(5), WeatherDelay: flights.Float(1), NASDelay: flights.Float(3),
			SecurityDelay: flights.Float(0), LateAircraftDelay: flights.Float(9),
		},
	}
}

func fixtureDataset() *flights.Dataset {
	return flights.NewDataset(fixtureRecords())
}

// only2020 holds records of a single year.
func only2020() *flights.Dataset {
	return flights.NewDataset([]flights.Record{
		{
			Year: 2020, Month: 3, ReportingAirline: "WN", OriginState: "TX", DestState: "CO",
			Flights: 4, AirTime: flights.Float(90), CarrierDelay: flights.Float(7),
		},
	})
}
