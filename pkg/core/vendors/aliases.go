package vendors

// DefaultAliases is the built-in substring dictionary of known
// subscription vendors, in lookup order.
func DefaultAliases() []AliasRule {
	return []AliasRule{
		{Match: "XERO", Canonical: "Xero"},
		{Match: "MYOB", Canonical: "MYOB"},
		{Match: "QUICKBOOKS", Canonical: "QuickBooks"},
		{Match: "INTUIT", Canonical: "QuickBooks"},
		{Match: "MICROSOFT", Canonical: "Microsoft 365"},
		{Match: "MSFT", Canonical: "Microsoft 365"},
		{Match: "GOOGLE WORKSPACE", Canonical: "Google Workspace"},
		{Match: "GSUITE", Canonical: "Google Workspace"},
		{Match: "GOOGLE CLOUD", Canonical: "Google Cloud"},
		{Match: "GOOGLE", Canonical: "Google"},
		{Match: "AMAZON WEB SERVICES", Canonical: "Amazon Web Services"},
		{Match: "AWS", Canonical: "Amazon Web Services"},
		{Match: "ADOBE", Canonical: "Adobe"},
		{Match: "CANVA", Canonical: "Canva"},
		{Match: "FIGMA", Canonical: "Figma"},
		{Match: "SLACK", Canonical: "Slack"},
		{Match: "ZOOM", Canonical: "Zoom"},
		{Match: "DROPBOX", Canonical: "Dropbox"},
		{Match: "SYNC.COM", Canonical: "Sync.com"},
		{Match: "ATLASSIAN", Canonical: "Atlassian"},
		{Match: "JIRA", Canonical: "Atlassian"},
		{Match: "CONFLUENCE", Canonical: "Atlassian"},
		{Match: "GITHUB", Canonical: "GitHub"},
		{Match: "GITLAB", Canonical: "GitLab"},
		{Match: "MAILCHIMP", Canonical: "Mailchimp"},
		{Match: "HUBSPOT", Canonical: "HubSpot"},
		{Match: "SALESFORCE", Canonical: "Salesforce"},
		{Match: "PIPEDRIVE", Canonical: "Pipedrive"},
		{Match: "ZENDESK", Canonical: "Zendesk"},
		{Match: "INTERCOM", Canonical: "Intercom"},
		{Match: "SHOPIFY", Canonical: "Shopify"},
		{Match: "SQUARESPACE", Canonical: "Squarespace"},
		{Match: "WIX", Canonical: "Wix"},
		{Match: "WORDPRESS", Canonical: "WordPress"},
		{Match: "GODADDY", Canonical: "GoDaddy"},
		{Match: "CLOUDFLARE", Canonical: "Cloudflare"},
		{Match: "DIGITALOCEAN", Canonical: "DigitalOcean"},
		{Match: "LINODE", Canonical: "Linode"},
		{Match: "HEROKU", Canonical: "Heroku"},
		{Match: "NETLIFY", Canonical: "Netlify"},
		{Match: "VERCEL", Canonical: "Vercel"},
		{Match: "TWILIO", Canonical: "Twilio"},
		{Match: "SENDGRID", Canonical: "SendGrid"},
		{Match: "STRIPE", Canonical: "Stripe"},
		{Match: "SQUARE", Canonical: "Square"},
		{Match: "DOCUSIGN", Canonical: "DocuSign"},
		{Match: "PANDADOC", Canonical: "PandaDoc"},
		{Match: "ASANA", Canonical: "Asana"},
		{Match: "TRELLO", Canonical: "Trello"},
		{Match: "MONDAY.COM", Canonical: "Monday.com"},
		{Match: "MONDAY", Canonical: "Monday.com"},
		{Match: "NOTION", Canonical: "Notion"},
		{Match: "CLICKUP", Canonical: "ClickUp"},
		{Match: "AIRTABLE", Canonical: "Airtable"},
		{Match: "CALENDLY", Canonical: "Calendly"},
		{Match: "LOOM", Canonical: "Loom"},
		{Match: "GRAMMARLY", Canonical: "Grammarly"},
		{Match: "LASTPASS", Canonical: "LastPass"},
		{Match: "1PASSWORD", Canonical: "1Password"},
		{Match: "NORD", Canonical: "NordVPN"},
		{Match: "DEPUTY", Canonical: "Deputy"},
		{Match: "EMPLOYMENT HERO", Canonical: "Employment Hero"},
		{Match: "SEEK", Canonical: "SEEK"},
		{Match: "LINKEDIN", Canonical: "LinkedIn"},
		{Match: "META ", Canonical: "Meta Ads"},
		{Match: "FACEBK", Canonical: "Meta Ads"},
		{Match: "SPOTIFY", Canonical: "Spotify"},
		{Match: "TELSTRA", Canonical: "Telstra"},
		{Match: "OPTUS", Canonical: "Optus"},
		{Match: "VODAFONE", Canonical: "Vodafone"},
	}
}
