package services

// ServiceContainer holds all service facades handed to the HTTP layer.
type ServiceContainer struct {
	Chart     ChartSvcFacade
	Draft     DraftSvcFacade
	Posting   PostingSvcFacade
	Report    ReportSvcFacade
	Drilldown DrilldownSvcFacade
	Price     PriceSvcFacade
	Audit     AuditSvcFacade
}
